// Package document classifies OCR-recognized text from Venezuelan identity
// and vehicle documents and extracts a fixed set of fields per document type.
//
// Everything here is pure and synchronous. Reference tables and the pattern
// registry are built once at package init and never written afterwards, so
// Process may be called from any number of goroutines.
package document

import (
	"fmt"
	"strings"
)

// DocumentType tags the kind of document a text was recognized from.
type DocumentType string

const (
	Cedula      DocumentType = "cedula"
	Licencia    DocumentType = "licencia"
	Certificado DocumentType = "certificado"
	Desconocido DocumentType = "desconocido"
)

// DocumentTypes lists the known document types in declaration order.
// Desconocido is not included.
func DocumentTypes() []DocumentType {
	return []DocumentType{Cedula, Licencia, Certificado}
}

// ParseDocumentType parses a type tag, case-insensitively.
func ParseDocumentType(s string) (DocumentType, error) {
	switch t := DocumentType(strings.ToLower(strings.TrimSpace(s))); t {
	case Cedula, Licencia, Certificado, Desconocido:
		return t, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Known reports whether t is one of the classifiable document types.
func (t DocumentType) Known() bool {
	switch t {
	case Cedula, Licencia, Certificado:
		return true
	}
	return false
}

// RecognizedText is the ordered sequence of lines produced by OCR.
type RecognizedText struct {
	lines []string
}

// NewRecognizedText trims each line and drops empty ones. Order is kept.
func NewRecognizedText(lines []string) RecognizedText {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return RecognizedText{lines: out}
}

// SplitText builds a RecognizedText from a newline separated block.
func SplitText(text string) RecognizedText {
	return NewRecognizedText(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// Lines returns a copy of the lines.
func (r RecognizedText) Lines() []string {
	return clone(r.lines)
}

// Text joins the lines with newlines.
func (r RecognizedText) Text() string {
	return strings.Join(r.lines, "\n")
}

// Stage is a step in the single-pass document lifecycle.
type Stage int

const (
	StageReceived Stage = iota
	StageClassified
	StageExtracted
	StageNormalized
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageClassified:
		return "classified"
	case StageExtracted:
		return "extracted"
	case StageNormalized:
		return "normalized"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}
