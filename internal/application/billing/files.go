package billing

import (
	"path/filepath"
	"strings"

	"github.com/subosito/gozaru"
)

// safeName adapta un nombre de cliente o número para usarlo en un archivo.
func safeName(name string) string {
	s := gozaru.Sanitize(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// GeneratedFileName invoice_{cliente}_{yyyy-MM}.pdf
func GeneratedFileName(client, month string) string {
	return "invoice_" + safeName(client) + "_" + month + ".pdf"
}

// CustomFileName custom_invoice_{cliente}_{yyyy-MM-dd}.pdf
func CustomFileName(client, issueDate string) string {
	return "custom_invoice_" + safeName(client) + "_" + issueDate + ".pdf"
}

// WebFileName invoice_{número}.pdf
func WebFileName(number string) string {
	return "invoice_" + safeName(number) + ".pdf"
}

func outputPath(dir, name string) string {
	return filepath.Join(dir, name)
}
