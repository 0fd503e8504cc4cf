// Package web embeds the HTML templates of the adoption site and the
// helper functions they use.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var files embed.FS

// FuncMap returns the template helpers.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// title renders stored lowercase values such as species for display.
		// A Caser keeps state, so one is made per call.
		"title": func(s string) string { return cases.Title(language.English).String(s) },
		"age": func(a *int) string {
			if a == nil {
				return ""
			}
			return strconv.Itoa(*a)
		},
		"yesno": func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		},
		"join": strings.Join,
	}
}

// Templates parses every embedded page. Each template is named after its
// file (e.g. "home.html"); base.html contributes the shared "header" and
// "footer" blocks.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
