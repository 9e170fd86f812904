package lyrics

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
)

type authorDefinition struct {
	Name, Type string
}

// templateValues holds variables available for output name expansion.
type templateValues struct {
	Title      string
	Titles     []string
	FirstLine  string
	Authors    []authorDefinition
	Language   string
	Released   string
	CCLINo     string
	Variant    string
	SongBooks  []SongBook
	Format     string
	SourceFile string
	RefID      string
}

// ExpandTemplate expands named template field with song metadata.
func (s *Song) ExpandTemplate(name, field, srcName, format, refID string) (string, error) {
	values := &templateValues{
		Title:      s.Properties.FirstTitle(),
		Language:   s.Meta.Lang,
		Released:   s.Properties.Released,
		CCLINo:     s.Properties.CCLINo,
		Variant:    s.Properties.Variant,
		SongBooks:  s.Properties.SongBooks,
		Format:     format,
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
		RefID:      refID,
	}
	if len(s.Verses) > 0 && len(s.Verses[0].Lines) > 0 {
		first, _, _ := strings.Cut(s.Verses[0].Lines[0].AsPlainText(), "\n")
		values.FirstLine = strings.TrimSpace(first)
	}
	for _, t := range s.Properties.Titles {
		values.Titles = append(values.Titles, t.Value)
	}
	for _, a := range s.Properties.Authors {
		values.Authors = append(values.Authors, authorDefinition{Name: a.Value, Type: a.Type})
	}

	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Transliterate converts file name to ASCII only slug, "Ó Holy Night" becomes
// "o-holy-night". Empty slug leaves name alone.
func Transliterate(s string) string {
	if out := slug.Make(s); out != "" {
		return out
	}
	return s
}
