// Package money formatea importes y cantidades para mostrar.
// Los cálculos se hacen en float64 sin redondeo; aquí se aplican los 2 decimales.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
	"PLN": "zł",
}

// Formatter formatea importes en una divisa y un idioma dados.
type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// New valida el código ISO 4217 y la etiqueta de idioma (BCP 47).
func New(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("divisa %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("idioma %q: %w", locale, err)
	}
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}
	return &Formatter{unit: unit, symbol: symbol, printer: message.NewPrinter(tag)}, nil
}

// MustNew como New pero entra en pánico; solo para valores constantes.
func MustNew(code, locale string) *Formatter {
	f, err := New(code, locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Code código ISO de la divisa.
func (f *Formatter) Code() string { return f.unit.String() }

// Symbol símbolo impreso delante de los importes.
func (f *Formatter) Symbol() string { return f.symbol }

// Fixed importe con exactamente 2 decimales, sin símbolo ni separador de miles.
func Fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Qty cantidad con la representación decimal más corta (1.5, 0.3333333).
func Qty(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Amount importe para el PDF: "€ 211.75".
func (f *Formatter) Amount(v float64) string {
	return f.symbol + " " + Fixed(v)
}

// Display importe para la consola con separadores de miles del idioma: "€ 1,234.50".
func (f *Formatter) Display(v float64) string {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f.symbol + " " + f.printer.Sprintf("%.2f", rounded)
}
