package document

import "regexp"

// ModelNotFound is stored in the modelo field when no model table entry
// occurs in the text.
const ModelNotFound = "model not found"

var (
	nationalIDPattern = regexp.MustCompile(`(?i)\b[VE][ -]?\d{8}\b`)
	longTokenPattern  = regexp.MustCompile(`(?i)[A-Z0-9]{15,}`)
	platePattern      = regexp.MustCompile(`(?i)\b[A-Z0-9]{7}\b`)
	occupantsPattern  = regexp.MustCompile(`(?i)(\d+)\s*PTOS`)
	birthDatePattern  = regexp.MustCompile(`(?i)F\.?\s*Nacimiento\s*:?(.*)`)
	givenNamePattern  = regexp.MustCompile(`(?m)NOMBRES\s+([\p{Lu} ]+)$`)
	familyNamePattern = regexp.MustCompile(`(?m)APELLIDOS\s+([\p{Lu} ]+)$`)
	brandScan         = TableScan(brands)
	modelScan         = SubstringScan(models)
)

// Extract runs the labeled-rule pass line by line and then the generic
// passes over the whole text. A field keeps the first value found for it.
// Absent fields are simply missing from the result.
//
// years drives only the generic year pass. The certificado año rule in the
// pattern registry always scans the built-in table.
func Extract(text string, rules RuleSet, years []string) *FieldMap {
	fields := NewFieldMap()
	yearScan := yearMatcher{years: years}

	for _, line := range SplitText(text).lines {
		for _, rule := range rules {
			if fields.Has(rule.Field) {
				continue
			}
			if v, ok := rule.Match(line); ok {
				fields.SetIfAbsent(rule.Field, v)
			}
		}
	}

	fields.SetIfAbsent(FieldCedula, nationalIDPattern.FindString(text))

	// Serials are assigned by position: the first long token is the body
	// serial, the second the engine serial. A lone token fills both.
	if tokens := longTokenPattern.FindAllString(text, -1); len(tokens) > 0 {
		fields.SetIfAbsent(FieldNumeroCarroceria, tokens[0])
		if len(tokens) > 1 {
			fields.SetIfAbsent(FieldSerialDeMotor, tokens[1])
		} else {
			fields.SetIfAbsent(FieldSerialDeMotor, tokens[0])
		}
	}

	fields.SetIfAbsent(FieldPlaca, platePattern.FindString(text))

	if v, ok := brandScan.Match(text); ok {
		fields.SetIfAbsent(FieldMarca, v)
	}

	if v, ok := modelScan.Match(text); ok {
		fields.SetIfAbsent(FieldModelo, v)
	} else {
		fields.SetIfAbsent(FieldModelo, ModelNotFound)
	}

	if v, ok := yearScan.Match(text); ok {
		fields.SetIfAbsent(FieldAno, v)
	}

	fields.SetIfAbsent(FieldOcupantes, firstGroup(occupantsPattern, text))
	fields.SetIfAbsent(FieldFechaNacimiento, firstGroup(birthDatePattern, text))
	fields.SetIfAbsent(FieldNombre, firstGroup(givenNamePattern, text))
	fields.SetIfAbsent(FieldApellido, firstGroup(familyNamePattern, text))

	return fields
}

func firstGroup(re *regexp.Regexp, s string) string {
	if sub := re.FindStringSubmatch(s); len(sub) > 1 {
		return sub[1]
	}
	return ""
}
