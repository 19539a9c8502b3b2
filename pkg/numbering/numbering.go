// Package numbering genera números de factura a partir de plantillas con
// marcadores de fecha y contador diario: {{YEAR}}, {{MONTH}} o {{MM}},
// {{DAY}} o {{DD}} e {{ inc }}. Los espacios dentro de las llaves se ignoran.
package numbering

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultTemplate plantilla usada cuando no se configura otra.
const DefaultTemplate = "INV-{{YEAR}}-{{MONTH}}-{{DAY}}-{{ inc }}"

var (
	yearRe  = regexp.MustCompile(`\{\{\s*YEAR\s*\}\}`)
	monthRe = regexp.MustCompile(`\{\{\s*(?:MONTH|MM)\s*\}\}`)
	dayRe   = regexp.MustCompile(`\{\{\s*(?:DAY|DD)\s*\}\}`)
	incRe   = regexp.MustCompile(`\{\{\s*inc\s*\}\}`)
	// la detección no distingue mayúsculas; el reemplazo sí
	hasIncRe = regexp.MustCompile(`(?i)\{\{\s*inc\s*\}\}`)
)

// Render sustituye los marcadores. inc se rellena con ceros hasta 3 dígitos.
// Marcadores mal formados se dejan tal cual.
func Render(template string, now time.Time, inc int) string {
	out := yearRe.ReplaceAllLiteralString(template, fmt.Sprintf("%04d", now.Year()))
	out = monthRe.ReplaceAllLiteralString(out, fmt.Sprintf("%02d", int(now.Month())))
	out = dayRe.ReplaceAllLiteralString(out, fmt.Sprintf("%02d", now.Day()))
	return incRe.ReplaceAllLiteralString(out, fmt.Sprintf("%03d", inc))
}

// HasIncrement indica si la plantilla contiene el contador.
func HasIncrement(template string) bool {
	return hasIncRe.MatchString(template)
}

// Next número que corresponde tras count facturas emitidas hoy.
// Sin contador en la plantilla, inc vale 0.
func Next(template string, now time.Time, count int) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}
	inc := 0
	if HasIncrement(template) {
		inc = count + 1
	}
	return Render(template, now, inc)
}

// StartOfDay medianoche de now en su zona; a partir de ahí se cuenta el día.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
