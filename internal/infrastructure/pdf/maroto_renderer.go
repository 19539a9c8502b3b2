// Package pdf genera el documento PDF de la factura con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  BANDA DE COLOR + título "Invoice"                          │
//	│  Invoice Number / Date of Issue / Date Due                  │
//	│  Issued To: (destinatario)   │  From: (emisor)              │
//	│  TABLA: Description | Qty | Unit Price | Amount             │
//	│  Subtotal / Tax (r%) / Total / Amount Due                   │
//	└─────────────────────────────────────────────────────────────┘
//	Página 2 (solo con timesheets): Start | End | Duration | Description
package pdf

import (
	"context"
	"fmt"
	"io"
	"os"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary     = &props.Color{Red: 0xE3, Green: 0x39, Blue: 0x39}
	colorSecondary   = &props.Color{Red: 0x97, Green: 0x2A, Blue: 0x2A}
	colorTableHeader = &props.Color{Red: 0xD3, Green: 0xD1, Blue: 0xD1}
	colorLightGray   = &props.Color{Red: 0xF0, Green: 0xF0, Blue: 0xF0}
	colorBlack       = &props.Color{Red: 0, Green: 0, Blue: 0}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// Renderer genera el PDF completo en memoria y lo escribe una sola vez.
type Renderer struct {
	money *money.Formatter
}

// NewRenderer construye el renderer con el formateador de importes.
func NewRenderer(f *money.Formatter) *Renderer {
	return &Renderer{money: f}
}

// Render devuelve los bytes del documento.
func (r *Renderer) Render(ctx context.Context, c billing.ComputedInvoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	v := NewView(c, r.money)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).WithRightMargin(20).
		WithTopMargin(0).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: fontfamily.Helvetica, Size: 10}).
		WithTitle("Invoice #"+v.Number, true).
		WithAuthor(firstLine(v.Sender), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(v.Title)...)
	m.AddRows(detailsRows(v)...)
	m.AddRows(partiesRow(v))
	m.AddRows(line.NewRow(6))
	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(v.Items)...)
	m.AddRows(summaryRows(v.Summary)...)

	if v.HasTimesheets() {
		m.AddPages(timesheetPage(v))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: generar documento: %v", domain.ErrRender, err)
	}
	return doc.GetBytes(), nil
}

// Write genera el documento y lo escribe en w. Si la generación falla no se escribe nada.
func (r *Renderer) Write(ctx context.Context, c billing.ComputedInvoice, w io.Writer) error {
	b, err := r.Render(ctx, c)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: escribir: %v", domain.ErrRender, err)
	}
	return nil
}

// WriteFile genera el documento y lo guarda en path.
func (r *Renderer) WriteFile(ctx context.Context, c billing.ComputedInvoice, path string) error {
	b, err := r.Render(ctx, c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRender, path, err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRows: banda degradada (dos tonos) + título centrado.
func headerRows(title string) []core.Row {
	return []core.Row{
		row.New(4).Add(
			col.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
			col.New(4).WithStyle(&props.Cell{BackgroundColor: colorSecondary}),
		),
		line.NewRow(0.5, props.Line{Color: colorBlack, Thickness: 0.1}),
		row.New(16).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 20, Align: align.Center, Top: 5}),
		)),
	}
}

// detailsRows: número y fechas, etiqueta a la izquierda y valor a la derecha.
func detailsRows(v View) []core.Row {
	pairs := [][2]string{
		{"Invoice Number:", v.Number},
		{"Date of Issue:", v.IssueDate},
		{"Date Due:", v.DueDate},
	}
	rows := make([]core.Row, 0, len(pairs)+1)
	for _, p := range pairs {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(p[0], props.Text{Style: fontstyle.Bold})),
			col.New(3).Add(text.New(p[1], props.Text{Style: fontstyle.Bold, Align: align.Right})),
			col.New(6),
		))
	}
	return append(rows, row.New(8))
}

// partiesRow: "Issued To:" a la izquierda y "From:" a la derecha.
func partiesRow(v View) core.Row {
	height := 7 + 5*float64(max(len(v.BillTo), len(v.Sender)))
	return row.New(height).Add(
		col.New(6).Add(partyBlock("Issued To:", v.BillTo)...),
		col.New(6).Add(partyBlock("From:", v.Sender)...),
	)
}

func partyBlock(heading string, lines []string) []core.Component {
	comps := []core.Component{
		text.New(heading, props.Text{Style: fontstyle.Bold, Size: 12}),
	}
	for i, l := range lines {
		comps = append(comps, text.New(l, props.Text{Size: 10, Top: 7 + 5*float64(i)}))
	}
	return comps
}

// itemsHeaderRow: cabecera gris de la tabla de ítems.
func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Align: a, Top: 2.5, Left: 1.5, Right: 1.5,
		}))
	}
	return row.New(9).Add(
		h("Description", 6, align.Left),
		h("Qty", 2, align.Right),
		h("Unit Price", 2, align.Right),
		h("Amount", 2, align.Right),
	).WithStyle(&props.Cell{
		BackgroundColor: colorTableHeader,
		BorderType:      border.Bottom,
		BorderColor:     colorBlack,
		BorderThickness: 0.2,
	})
}

// itemRows: una fila por ítem; el periodo va en segunda línea entre paréntesis.
func itemRows(items []ItemView) []core.Row {
	cell := &props.Cell{
		BackgroundColor: colorLightGray,
		BorderType:      border.Bottom,
		BorderColor:     colorBlack,
		BorderThickness: 0.2,
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := []core.Component{text.New(it.Description, props.Text{Top: 2, Left: 1.5})}
		height := 9.0
		if it.Period != "" {
			desc = append(desc, text.New("("+it.Period+")", props.Text{Top: 7, Left: 1.5, Size: 9}))
			height = 14
		}
		value := func(s string) core.Component {
			return text.New(s, props.Text{Align: align.Right, Top: 2, Right: 1.5})
		}
		rows = append(rows, row.New(height).Add(
			col.New(6).Add(desc...),
			col.New(2).Add(value(it.Qty)),
			col.New(2).Add(value(it.UnitPrice)),
			col.New(2).Add(value(it.Amount)),
		).WithStyle(cell))
	}
	return rows
}

// summaryRows: Subtotal, Tax, Total y Amount Due alineados bajo las dos últimas columnas.
func summaryRows(summary []SummaryRow) []core.Row {
	rows := make([]core.Row, 0, len(summary))
	for i, s := range summary {
		style := props.Text{Align: align.Right, Top: 2, Right: 1.5}
		if i == len(summary)-1 {
			style.Style = fontstyle.Bold
		}
		rows = append(rows, row.New(8).Add(
			col.New(8),
			col.New(2).Add(text.New(s.Label, style)).WithStyle(&props.Cell{BorderType: border.Bottom, BorderThickness: 0.2}),
			col.New(2).Add(text.New(s.Value, style)).WithStyle(&props.Cell{BorderType: border.Bottom, BorderThickness: 0.2}),
		))
	}
	return rows
}

// timesheetPage: segunda página con el detalle de entradas de tiempo.
func timesheetPage(v View) core.Page {
	p := page.New()
	p.Add(headerRows("Time Entries Summary")...)
	p.Add(row.New(6))

	cell := &props.Cell{BorderType: border.Bottom, BorderThickness: 0.2}
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Top: 1.5, Left: 1}))
	}
	p.Add(row.New(7).Add(h("Start", 3), h("End", 2), h("Duration", 2), h("Description", 5)).WithStyle(cell))

	for _, ts := range v.Timesheets {
		c := func(s string, size int) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 9, Top: 1.5, Left: 1}))
		}
		p.Add(row.New(7).Add(
			c(ts.Start, 3),
			c(ts.End, 2),
			c(ts.Seconds, 2),
			c(ts.Name, 5),
		).WithStyle(cell))
	}
	return p
}

// ── helpers ───────────────────────────────────────────────────────────────────

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
