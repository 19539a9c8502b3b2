package pdf

import (
	"strings"

	"github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/pkg/money"
)

// ItemView fila de la tabla de ítems ya formateada.
type ItemView struct {
	Description string
	Period      string
	Qty         string
	UnitPrice   string
	Amount      string
}

// SummaryRow fila de totales bajo la tabla de ítems.
type SummaryRow struct {
	Label string
	Value string
}

// View todos los textos del documento, sin decisiones de maquetación.
type View struct {
	Title      string
	Number     string
	IssueDate  string
	DueDate    string
	BillTo     []string
	Sender     []string
	Items      []ItemView
	Summary    []SummaryRow
	Timesheets []entity.TimesheetRow
}

// NewView formatea una factura calculada: 2 decimales y símbolo de divisa en
// importes, cantidades con su representación más corta.
func NewView(c billing.ComputedInvoice, f *money.Formatter) View {
	inv := c.Invoice
	v := View{
		Title:      "Invoice",
		Number:     inv.Number,
		IssueDate:  inv.IssueDate,
		DueDate:    inv.DueDate,
		BillTo:     billToLines(inv.BillTo),
		Sender:     senderLines(inv.Sender),
		Timesheets: inv.Timesheets,
	}
	for _, it := range c.Items {
		v.Items = append(v.Items, ItemView{
			Description: it.Description,
			Period:      it.Period,
			Qty:         money.Qty(it.Qty),
			UnitPrice:   f.Amount(it.UnitPrice),
			Amount:      f.Amount(it.Amount),
		})
	}

	tax := f.Amount(c.Tax)
	if inv.TaxRate == 0 {
		tax = "0.00"
	}
	v.Summary = []SummaryRow{
		{Label: "Subtotal", Value: f.Amount(c.Subtotal)},
		{Label: "Tax (" + money.Qty(inv.TaxRate) + "%)", Value: tax},
		{Label: "Total", Value: f.Amount(c.Total)},
		{Label: "Amount Due", Value: f.Amount(c.AmountDue)},
	}
	return v
}

// HasTimesheets indica si se imprime la segunda página.
func (v View) HasTimesheets() bool { return len(v.Timesheets) > 0 }

func billToLines(b entity.BillTo) []string {
	lines := []string{b.Name}
	if b.CompanyNumber != "" {
		lines = append(lines, "Company number: "+b.CompanyNumber)
	}
	lines = append(lines, b.Address)
	state := ""
	if b.State != "" {
		state = b.State + ", "
	}
	lines = append(lines, strings.TrimRight(b.City+", "+state+b.Zip, ", "), b.Country)
	return lines
}

func senderLines(s entity.Sender) []string {
	label := "Individual entrepreneurship number: "
	if s.EntityType == entity.EntityCompany {
		label = "Company number: "
	}
	lines := []string{s.Name, label + s.EntityNumber, s.Address + ", " + s.City, s.Country}
	if s.Phone != "" {
		lines = append(lines, "Phone: "+s.Phone)
	}
	if s.IBAN != "" {
		lines = append(lines, "IBAN: "+s.IBAN)
	}
	return lines
}
