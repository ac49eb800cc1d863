package document

import "strings"

// phrase rules are tested in order; the first hit decides the type.
// The cedula header list carries the OCR misreadings seen in the field.
var classifierRules = []struct {
	docType DocumentType
	phrases []string
}{
	{Cedula, []string{
		"republica bolivariana de venezuela",
		"republica bolivariana de venezuel",
		"republica bolivarlana de venezuela",
		"republica bolivarianade venezuela",
	}},
	{Licencia, []string{
		"licencia para conducir",
	}},
	{Certificado, []string{
		"certificado de circulación",
		"ap1",
	}},
}

// Classify returns the document type for the recognized text. It never
// fails: text that matches no rule is Desconocido.
func Classify(text string) DocumentType {
	normalized := strings.TrimSpace(strings.ToLower(text))
	for _, rule := range classifierRules {
		for _, p := range rule.phrases {
			if strings.Contains(normalized, p) {
				return rule.docType
			}
		}
	}
	return Desconocido
}
