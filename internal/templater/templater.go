// Package templater renders the starting content for new notes.
package templater

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

//go:embed templates
var embeddedTemplates embed.FS

// AvailableTemplates defines the set of templates that are available for use.
var AvailableTemplates = map[string]bool{
	"blank":   true,
	"daily":   true,
	"zet":     true,
	"meeting": true,
}

type SingleTemplate struct {
	FilePath string
	Content  string
}

type TemplateMap map[string]SingleTemplate

// Templater manages a collection of note templates.
type Templater struct {
	templates TemplateMap
}

// TemplateData is the structure passed to templates during rendering.
type TemplateData struct {
	Title string
	Date  string
	Links []string
}

// NewTemplater loads user templates from dir (precedence) and then the
// embedded defaults. Pass an empty dir to use embedded templates only.
func NewTemplater(dir string) (*Templater, error) {
	tmplMap := make(TemplateMap)

	if dir != "" {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			if err := tmplMap.loadTemplates(dir); err != nil {
				return nil, err
			}
		}
	}

	for templateName := range tmplMap {
		AvailableTemplates[templateName] = true
	}

	if err := tmplMap.loadEmbeddedTemplates(embeddedTemplates); err != nil {
		return nil, err
	}

	return &Templater{templates: tmplMap}, nil
}

// Execute finds the template by name and renders it with data.
func (t *Templater) Execute(templateName string, data TemplateData) (string, error) {
	tmplData, ok := t.templates[templateName]
	if !ok {
		return "", errors.New("template not found")
	}

	tmpl, err := template.New(templateName).Parse(tmplData.Content)
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}

	return strings.TrimRight(rendered.String(), "\n"), nil
}

// Names lists the loaded template names, for command completion and the
// settings panel.
func (t *Templater) Names() []string {
	names := make([]string, 0, len(t.templates))
	for name := range t.templates {
		names = append(names, name)
	}
	return names
}

// DailyTitle returns the canonical title for today's daily note.
func DailyTitle(now time.Time) string {
	return now.Format("2006-01-02")
}

// ZetTitle returns a Zettelkasten-style timestamp title.
func ZetTitle(now time.Time) string {
	return fmt.Sprintf("zet-%s", now.UTC().Format("20060102150405"))
}

func (m TemplateMap) loadEmbeddedTemplates(embeddedFS embed.FS) error {
	return fs.WalkDir(
		embeddedFS,
		"templates",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() {
				name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
				if _, exists := m[name]; !exists {
					data, err := fs.ReadFile(embeddedFS, path)
					if err != nil {
						return err
					}

					m[name] = SingleTemplate{
						FilePath: path,
						Content:  string(data),
					}
				}
			}

			return nil
		},
	)
}

func (m TemplateMap) loadTemplates(dirPath string) error {
	return filepath.Walk(
		dirPath,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && filepath.Ext(path) == ".tmpl" {
				name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))

				if _, exists := m[name]; !exists {
					data, readErr := os.ReadFile(path)
					if readErr != nil {
						return readErr
					}
					m[name] = SingleTemplate{
						FilePath: path,
						Content:  string(data),
					}
				}
			}
			return nil
		},
	)
}
