package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"rtfgen/config"
	"rtfgen/source"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Author     string
	Subject    string
	Keywords   []string
	Language   string
	Date       string
	Format     string
	SourceFile string
	DocID      string
}

func buildDate(doc *source.Document) string {
	if doc.Info.Created.IsZero() {
		return ""
	}
	return doc.Info.Created.Format("2006-01-02")
}

func expandTemplate(doc *source.Document, src, docID string, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      doc.Info.Title,
		Author:     doc.Info.Author,
		Subject:    doc.Info.Subject,
		Keywords:   strings.FieldsFunc(doc.Info.Keywords, func(r rune) bool { return r == ',' || r == ';' }),
		Language:   doc.Language,
		Date:       buildDate(doc),
		Format:     strings.TrimPrefix(outputExt, "."),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		DocID:      docID,
	}
	for i, k := range values.Keywords {
		values.Keywords[i] = strings.TrimSpace(k)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
