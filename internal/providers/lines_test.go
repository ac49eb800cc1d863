package providers

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	got := SplitLines("  NOMBRES JUAN \r\n\n\tAPELLIDOS PEREZ\n   ")
	want := []string{"NOMBRES JUAN", "APELLIDOS PEREZ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %q, want %q", got, want)
	}
	if got := SplitLines(""); len(got) != 0 {
		t.Errorf("SplitLines(\"\") = %q, want empty", got)
	}
}

func TestMarkdownToLines(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want []string
	}{
		{"heading", "## LICENCIA PARA CONDUCIR", []string{"LICENCIA PARA CONDUCIR"}},
		{"emphasis", "**Placa:** `AB123CD`", []string{"Placa: AB123CD"}},
		{"image dropped", "![img-0.jpeg](img-0.jpeg)\nFOTO", []string{"FOTO"}},
		{"link text kept", "[V-12345678](http://x)", []string{"V-12345678"}},
		{"list marker", "- Marca: FORD\n2. Modelo: FIESTA", []string{"Marca: FORD", "Modelo: FIESTA"}},
		{"blockquote", "> Color: ROJO", []string{"Color: ROJO"}},
		{
			"table",
			"| Marca | FORD |\n|:---|---:|\n| Año | 2010 |",
			[]string{"Marca FORD", "Año 2010"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToLines(tt.md); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MarkdownToLines() = %q, want %q", got, tt.want)
			}
		})
	}
}
