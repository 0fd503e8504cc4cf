package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"home.html", "add_pet.html", "pet_detail.html", "error.html", "header", "footer", "field_errors", "csrf"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestFuncMap(t *testing.T) {
	fm := FuncMap()

	title := fm["title"].(func(string) string)
	assert.Equal(t, "Porcupine", title("porcupine"))

	age := fm["age"].(func(*int) string)
	n := 0
	assert.Equal(t, "", age(nil))
	assert.Equal(t, "0", age(&n))

	yesno := fm["yesno"].(func(bool) string)
	assert.Equal(t, "Yes", yesno(true))
	assert.Equal(t, "No", yesno(false))
}

func TestErrorPage_Renders(t *testing.T) {
	tmpl := MustTemplates()
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "error.html", map[string]any{
		"Title":      "Not Found",
		"Status":     404,
		"StatusText": "Not Found",
		"Message":    "pet <not> found",
		"RequestID":  "rid-1",
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "404 Not Found")
	assert.Contains(t, out, "pet &lt;not&gt; found")
	assert.Contains(t, out, "rid-1")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<!doctype html>"))
}
