package common

import (
	"fmt"
	"io"
	"text/template"
)

const preludeTemplate = `// Code generated by cpp2d {{.Version}} from {{.Source}}. DO NOT EDIT.
{{.DigestPrefix}}{{.Digest}}
{{- if .Module}}

module {{.Module}};
{{- end}}
{{- if .Imports}}
{{range .Imports}}
import {{.}};
{{- end}}
{{- end}}
`

var prelude = template.Must(template.New("prelude").Parse(preludeTemplate))

// Prelude is the data rendered at the top of every generated D file.
type Prelude struct {
	Version string
	Source  string
	Digest  string
	Module  string
	Imports []string
}

// WritePrelude renders the generated-file banner, digest line and the
// optional module and import declarations.
func WritePrelude(w io.Writer, p Prelude) error {
	data := struct {
		Prelude
		DigestPrefix string
	}{p, DigestPrefix}
	if err := prelude.Execute(w, data); err != nil {
		return fmt.Errorf("execute prelude template: %w", err)
	}
	return nil
}
