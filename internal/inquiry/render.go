package inquiry

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// subject builds a header value from user input; line breaks would start a
// new header.
func subject(format string, args ...any) string {
	return headerSanitizer.Replace(fmt.Sprintf(format, args...))
}
