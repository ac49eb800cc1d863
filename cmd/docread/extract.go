package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/document"
	"github.com/docread/docread/internal/schema"
)

var (
	extractFields bool
	extractStrict bool
)

type extractOutput struct {
	DocumentType document.DocumentType `json:"document_type" yaml:"document_type"`
	Record       document.OutputRecord `json:"record" yaml:"record"`
	Fields       map[string]string     `json:"fields,omitempty" yaml:"fields,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Classify recognized text and extract fields locally",
	Long: `Classify already recognized text and extract its fields without OCR.

Reads one line of OCR output per line from the file, or from stdin when
no file (or "-") is given. No server or provider is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("no text to extract")
		}

		res := document.ProcessText(string(data))
		if extractStrict {
			if err := schema.Validate(res.Type, res.Record); err != nil {
				return err
			}
		}

		out := extractOutput{DocumentType: res.Type, Record: res.Record}
		if extractFields && res.Fields != nil {
			out.Fields = res.Fields.Map()
		}
		return outputResult(out)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractFields, "fields", false, "include the raw extracted field map")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, "validate the record against its JSON Schema")
	rootCmd.AddCommand(extractCmd)
}
