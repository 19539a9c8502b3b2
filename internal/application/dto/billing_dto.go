package dto

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/pkg/money"
)

// ── Formulario web ────────────────────────────────────────────────────────────

// SenderRequest emisor tal como lo envía el formulario.
type SenderRequest struct {
	Name         string `json:"name"`
	EntityNumber string `json:"entityNumber"`
	EntityType   string `json:"entityType,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
	IBAN         string `json:"iban,omitempty"`
}

// BillToRequest destinatario tal como lo envía el formulario.
type BillToRequest struct {
	Name          string `json:"name"`
	CompanyNumber string `json:"companyNumber,omitempty"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	Zip           string `json:"zip,omitempty"`
	Country       string `json:"country"`
}

// ItemRequest línea de factura enviada por el cliente.
type ItemRequest struct {
	Description string  `json:"description"`
	Period      string  `json:"period,omitempty"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
}

// GenerateInvoiceRequest body para POST /api/generate-invoice.
// InvoiceNumber es opcional: vacío = numeración por plantilla.
type GenerateInvoiceRequest struct {
	InvoiceNumber  string        `json:"invoiceNumber,omitempty"`
	NumberTemplate string        `json:"numberTemplate,omitempty"`
	IssueDate      string        `json:"issueDate"`
	DueDate        string        `json:"dueDate"`
	Sender         SenderRequest `json:"sender"`
	BillTo         BillToRequest `json:"billTo"`
	Items          []ItemRequest `json:"items"`
	TaxRate        float64       `json:"taxRate"`
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate aplica las reglas del formulario y devuelve todas las violaciones
// envueltas en domain.ErrInvalidInput.
func (r *GenerateInvoiceRequest) Validate() error {
	v := &violations{}

	v.required("sender.name", r.Sender.Name)
	v.required("sender.entityNumber", r.Sender.EntityNumber)
	v.required("sender.address", r.Sender.Address)
	v.required("sender.city", r.Sender.City)
	v.required("sender.country", r.Sender.Country)
	switch entity.EntityType(r.Sender.EntityType) {
	case "", entity.EntityEntrepreneurship, entity.EntityCompany:
	default:
		v.add("sender.entityType must be entrepreneurship or company")
	}

	v.required("billTo.name", r.BillTo.Name)
	v.required("billTo.address", r.BillTo.Address)
	v.required("billTo.city", r.BillTo.City)
	v.required("billTo.country", r.BillTo.Country)

	v.date("issueDate", r.IssueDate)
	v.date("dueDate", r.DueDate)

	if r.TaxRate < 0 || r.TaxRate > 100 {
		v.add("taxRate must be between 0 and 100")
	}
	if len(r.Items) == 0 {
		v.add("at least one item is required")
	}
	for i, it := range r.Items {
		v.item(i, it)
	}
	return v.err()
}

// ToInvoice convierte la petición validada en un borrador de origen web.
func (r *GenerateInvoiceRequest) ToInvoice() *entity.Invoice {
	entityType := entity.EntityType(r.Sender.EntityType)
	if entityType == "" {
		entityType = entity.EntityEntrepreneurship
	}
	items := make([]entity.InvoiceItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Period:      strings.TrimSpace(it.Period),
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
		})
	}
	return &entity.Invoice{
		Kind:      entity.InvoiceKindWeb,
		Number:    strings.TrimSpace(r.InvoiceNumber),
		IssueDate: r.IssueDate,
		DueDate:   r.DueDate,
		Sender: entity.Sender{
			Name:         r.Sender.Name,
			EntityNumber: r.Sender.EntityNumber,
			EntityType:   entityType,
			Address:      r.Sender.Address,
			City:         r.Sender.City,
			Country:      r.Sender.Country,
			Phone:        r.Sender.Phone,
			IBAN:         r.Sender.IBAN,
		},
		BillTo: entity.BillTo{
			Name:          r.BillTo.Name,
			CompanyNumber: r.BillTo.CompanyNumber,
			Address:       r.BillTo.Address,
			City:          r.BillTo.City,
			State:         r.BillTo.State,
			Zip:           r.BillTo.Zip,
			Country:       r.BillTo.Country,
		},
		Items:   items,
		TaxRate: r.TaxRate,
	}
}

// ValidateItems valida ítems sueltos (factura personalizada por CLI).
func ValidateItems(items []ItemRequest) error {
	v := &violations{}
	for i, it := range items {
		v.item(i, it)
	}
	return v.err()
}

// ValidateDate comprueba el formato YYYY-MM-DD y que sea una fecha real.
func ValidateDate(field, value string) error {
	v := &violations{}
	v.date(field, value)
	return v.err()
}

type violations struct {
	list []string
}

func (v *violations) add(format string, args ...any) {
	v.list = append(v.list, fmt.Sprintf(format, args...))
}

func (v *violations) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add("%s is required", field)
	}
}

func (v *violations) date(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add("%s is required", field)
		return
	}
	if !isoDateRe.MatchString(value) {
		v.add("%s must be in YYYY-MM-DD format", field)
		return
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		v.add("%s is not a valid date", field)
	}
}

func (v *violations) item(i int, it ItemRequest) {
	if strings.TrimSpace(it.Description) == "" {
		v.add("items[%d].description is required", i)
	}
	if it.Qty <= 0 {
		v.add("items[%d].qty must be greater than 0", i)
	}
	if it.UnitPrice < 0 {
		v.add("items[%d].unitPrice must be >= 0", i)
	}
}

func (v *violations) err() error {
	if len(v.list) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.list}
}

// ValidationError lista de violaciones; Is(domain.ErrInvalidInput).
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// InvoiceItemResponse ítem con su importe.
type InvoiceItemResponse struct {
	Description string  `json:"description"`
	Period      string  `json:"period"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// InvoiceSummaryResponse fila de GET /api/invoices y del comando list.
type InvoiceSummaryResponse struct {
	ID        int64   `json:"id"`
	Number    string  `json:"number"`
	Kind      string  `json:"kind"`
	Client    string  `json:"client"`
	IssueDate string  `json:"issueDate"`
	DueDate   string  `json:"dueDate"`
	Total     float64 `json:"total"`
	TotalText string  `json:"totalText"`
}

// InvoiceResponse detalle de GET /api/invoices/:id y del comando view.
type InvoiceResponse struct {
	ID         int64                 `json:"id"`
	UID        string                `json:"uid"`
	Number     string                `json:"number"`
	Kind       string                `json:"kind"`
	IssueDate  string                `json:"issueDate"`
	DueDate    string                `json:"dueDate"`
	Sender     entity.Sender         `json:"sender"`
	BillTo     entity.BillTo         `json:"billTo"`
	Items      []InvoiceItemResponse `json:"items"`
	TaxRate    float64               `json:"taxRate"`
	Subtotal   float64               `json:"subtotal"`
	Tax        float64               `json:"tax"`
	Total      float64               `json:"total"`
	AmountDue  float64               `json:"amountDue"`
	Timesheets []entity.TimesheetRow `json:"timesheets"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// NewInvoiceSummary resume una factura almacenada.
func NewInvoiceSummary(inv *entity.Invoice, f *money.Formatter) InvoiceSummaryResponse {
	c := billing.Compute(*inv)
	return InvoiceSummaryResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		Kind:      inv.Kind,
		Client:    inv.BillTo.Name,
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Total:     c.Total,
		TotalText: f.Display(c.Total),
	}
}

// NewInvoiceResponse detalle con totales recalculados.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	c := billing.Compute(*inv)
	items := make([]InvoiceItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, InvoiceItemResponse{
			Description: it.Description,
			Period:      it.Period,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	timesheets := inv.Timesheets
	if timesheets == nil {
		timesheets = []entity.TimesheetRow{}
	}
	return InvoiceResponse{
		ID:         inv.ID,
		UID:        inv.UID,
		Number:     inv.Number,
		Kind:       inv.Kind,
		IssueDate:  inv.IssueDate,
		DueDate:    inv.DueDate,
		Sender:     inv.Sender,
		BillTo:     inv.BillTo,
		Items:      items,
		TaxRate:    inv.TaxRate,
		Subtotal:   c.Subtotal,
		Tax:        c.Tax,
		Total:      c.Total,
		AmountDue:  c.AmountDue,
		Timesheets: timesheets,
		CreatedAt:  inv.CreatedAt,
	}
}

// NumberPreviewResponse respuesta de GET /api/invoice-number/preview.
type NumberPreviewResponse struct {
	Template string `json:"template"`
	Number   string `json:"number"`
}
