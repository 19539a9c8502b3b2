package billing

import (
	"strconv"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/entity"
)

// AssembleInput datos necesarios para construir el borrador de un contrato.
type AssembleInput struct {
	Contract entity.Contract
	Owner    entity.Owner
	Period   Period
	Entries  []entity.TimeEntry // solo las del cliente del contrato
	Now      time.Time
	Location *time.Location // zona para formatear los timesheets
}

// AssembleInvoice construye el borrador de factura de un contrato:
//
//  1. Vencimiento = fin del mes en curso + preaviso; emisión = fin del periodo.
//  2. Un ítem por servicio fijo (qty 1).
//  3. Un ítem por proyecto con horas; el proyecto debe existir como servicio del contrato.
//  4. Timesheets por entrada, ordenados por inicio.
//
// El número queda como PlaceholderNumber hasta que se persiste.
func AssembleInvoice(in AssembleInput) (*entity.Invoice, error) {
	label := in.Period.Label()

	items := make([]entity.InvoiceItem, 0, len(in.Contract.Services))
	for _, s := range in.Contract.FixedServices() {
		items = append(items, entity.InvoiceItem{
			Description: s.Name,
			Period:      label,
			Qty:         1,
			UnitPrice:   s.Price,
		})
	}

	var timesheets []entity.TimesheetRow
	if len(in.Entries) > 0 {
		for _, group := range GroupByProject(in.Entries) {
			service, ok := in.Contract.Service(group.Key)
			if !ok {
				return nil, &domain.ServiceNotAvailableError{Service: group.Key, Client: in.Contract.Name}
			}
			items = append(items, entity.InvoiceItem{
				Description: service.Name,
				Period:      label,
				Qty:         group.Hours(),
				UnitPrice:   service.Price,
			})
		}
		timesheets = BuildTimesheets(in.Entries, in.Location)
	}

	return &entity.Invoice{
		Kind:       entity.InvoiceKindGenerated,
		Number:     entity.PlaceholderNumber,
		IssueDate:  in.Period.End,
		DueDate:    DueDate(in.Now, in.Contract.Notice),
		Sender:     in.Owner.Sender(),
		BillTo:     in.Contract.BillTo(),
		Items:      items,
		TaxRate:    in.Contract.Tax,
		Timesheets: timesheets,
	}, nil
}

// GeneratedNumber número definitivo de una factura generada: {prefijo}{yyMMdd}{id}.
func GeneratedNumber(prefix string, now time.Time, id int64) string {
	return prefix + now.Format("060102") + strconv.FormatInt(id, 10)
}

// CustomNumber número definitivo de una factura personalizada: {prefijo}{id}.
func CustomNumber(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
