package billing

import "github.com/jhoicas/invoicer/internal/domain/entity"

// ComputedItem ítem con su importe derivado.
type ComputedItem struct {
	entity.InvoiceItem
	Amount float64
}

// ComputedInvoice valor inmutable con los totales de un borrador.
// Sin redondeo: los 2 decimales se aplican solo al mostrar.
type ComputedInvoice struct {
	Invoice   entity.Invoice
	Items     []ComputedItem
	Subtotal  float64
	Tax       float64
	Total     float64
	AmountDue float64
}

// Compute calcula importes y totales. Es pura e idempotente: no modifica el
// borrador y cada llamada parte de cero.
func Compute(inv entity.Invoice) ComputedInvoice {
	items := make([]ComputedItem, 0, len(inv.Items))
	var subtotal float64
	for _, it := range inv.Items {
		amount := it.Qty * it.UnitPrice
		subtotal += amount
		items = append(items, ComputedItem{InvoiceItem: it, Amount: amount})
	}
	tax := subtotal * inv.TaxRate / 100
	total := subtotal + tax

	// el resultado no comparte slices con el borrador
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	inv.Timesheets = append([]entity.TimesheetRow(nil), inv.Timesheets...)

	return ComputedInvoice{
		Invoice:   inv,
		Items:     items,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		AmountDue: total,
	}
}
