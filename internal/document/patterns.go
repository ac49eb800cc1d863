package document

import (
	"regexp"
	"strings"
)

// Field names shared by the pattern registry, the generic passes and the
// output records.
const (
	FieldNombre           = "nombre"
	FieldApellido         = "apellido"
	FieldNumeroDeCedula   = "numero_de_cedula"
	FieldCedula           = "cedula"
	FieldFechaNacimiento  = "fecha_nacimiento"
	FieldFechaVencimiento = "fecha_vencimiento"
	FieldSexo             = "sexo"
	FieldColor            = "color"
	FieldNumeroCarroceria = "numero_carroceria"
	FieldSerialDeMotor    = "serial_de_motor"
	FieldPlaca            = "placa"
	FieldAno              = "año"
	FieldOcupantes        = "ocupantes"
	FieldMarca            = "marca"
	FieldModelo           = "modelo"
	FieldError            = "error"
)

// Matcher pulls a single value out of a piece of text.
type Matcher interface {
	Match(s string) (string, bool)
}

// Rule binds a Matcher to the field it fills.
type Rule struct {
	Field string
	Matcher
}

// RuleSet is evaluated in declaration order.
type RuleSet []Rule

// Fields returns the field names of the rules, in order.
func (rs RuleSet) Fields() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Field
	}
	return out
}

type labelMatcher struct {
	re *regexp.Regexp
}

// Labeled returns a Matcher for a label-anchored regular expression. The
// value is the first capture group, or the whole match when the expression
// has no groups. It panics if expr does not compile.
func Labeled(expr string) Matcher {
	return labelMatcher{re: regexp.MustCompile(expr)}
}

func (m labelMatcher) Match(s string) (string, bool) {
	sub := m.re.FindStringSubmatch(s)
	if sub == nil {
		return "", false
	}
	if len(sub) > 1 {
		return sub[1], true
	}
	return sub[0], true
}

func (m labelMatcher) String() string { return m.re.String() }

type tableMatcher struct {
	re *regexp.Regexp
}

// TableScan returns a Matcher that finds the first table entry appearing in
// the text as a whole word or phrase, ignoring case. Entries are tried in
// table order at each position, and the value keeps the casing of the text.
func TableScan(entries []string) Matcher {
	alts := make([]string, len(entries))
	for i, e := range entries {
		alts[i] = regexp.QuoteMeta(e)
	}
	expr := `(?i)(?:^|[^\p{L}\p{N}_])(` + strings.Join(alts, "|") + `)(?:$|[^\p{L}\p{N}_])`
	return tableMatcher{re: regexp.MustCompile(expr)}
}

func (m tableMatcher) Match(s string) (string, bool) {
	sub := m.re.FindStringSubmatch(s)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}

type substringMatcher struct {
	entries []string
}

// SubstringScan returns a Matcher that reports the first table entry, in
// table order, contained anywhere in the uppercased text.
func SubstringScan(entries []string) Matcher {
	up := make([]string, len(entries))
	for i, e := range entries {
		up[i] = strings.ToUpper(e)
	}
	return substringMatcher{entries: up}
}

func (m substringMatcher) Match(s string) (string, bool) {
	upper := strings.ToUpper(s)
	for _, e := range m.entries {
		if strings.Contains(upper, e) {
			return e, true
		}
	}
	return "", false
}

type yearMatcher struct {
	years []string
}

// YearScan returns a Matcher that reports the first year, in table order,
// appearing in the text without touching other digits.
func YearScan(years []string) Matcher {
	return yearMatcher{years: clone(years)}
}

func (m yearMatcher) Match(s string) (string, bool) {
	for _, y := range m.years {
		if containsNumber(s, y) {
			return y, true
		}
	}
	return "", false
}

func containsNumber(s, n string) bool {
	for from := 0; from <= len(s)-len(n); {
		i := strings.Index(s[from:], n)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(n)
		if (start == 0 || !isDigit(s[start-1])) && (end == len(s) || !isDigit(s[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

const idNumber = `\b([VE]-?\s?\d{1,3}(?:\.\d{3}){1,2})\b`

// patterns is built once from the built-in reference tables.
var patterns = map[DocumentType]RuleSet{
	Cedula: {
		{FieldNombre, Labeled(`NOMBRES\s+([\p{Lu} ]+)$`)},
		{FieldApellido, Labeled(`APELLIDOS\s+([\p{Lu} ]+)$`)},
		{FieldNumeroDeCedula, Labeled(`(?i)` + idNumber)},
	},
	Licencia: {
		{FieldNombre, Labeled(`(?i)Nombres:\s*(.+)`)},
		{FieldApellido, Labeled(`(?i)Apellidos:\s*(.+)`)},
		{FieldFechaNacimiento, Labeled(`(?i)F\.?\s*Nacimiento\s*:?(.*)`)},
		{FieldFechaVencimiento, Labeled(`(?i)F\. Vencimiento:\s*(\d{2}/\d{2}/\d{4})`)},
		{FieldCedula, Labeled(`(?i)` + idNumber)},
		{FieldSexo, Labeled(`(?i)Sexo:\s*(.+)`)},
	},
	Certificado: {
		{FieldCedula, Labeled(`(?i)` + idNumber)},
		{FieldColor, TableScan(colors)},
		{FieldNumeroCarroceria, Labeled(`(?i)número de carrocería:\s*(.+)`)},
		{FieldSerialDeMotor, Labeled(`(?i)serial de motor:\s*(.+)`)},
		{FieldPlaca, Labeled(`(?i)placa:\s*(\w+)`)},
		{FieldAno, YearScan(years)},
		{FieldOcupantes, Labeled(`(?i)ocupantes:\s*(\d+)`)},
		{FieldMarca, TableScan(brands)},
		{FieldModelo, Labeled(`(?i)modelo:\s*(.+)`)},
	},
}

// PatternsFor returns the type-specific rules for t. Desconocido and
// unrecognized types get an empty RuleSet.
func PatternsFor(t DocumentType) RuleSet {
	rs := patterns[t]
	out := make(RuleSet, len(rs))
	copy(out, rs)
	return out
}
