package entity

import "time"

// Origen de la factura.
const (
	InvoiceKindGenerated = "generated" // desde entradas de tiempo + contrato
	InvoiceKindCustom    = "custom"    // ítems indicados por CLI
	InvoiceKindWeb       = "web"       // formulario web
)

// PlaceholderNumber se usa hasta que la persistencia asigna el ID definitivo.
const PlaceholderNumber = "INV-temp"

// Sender datos del emisor impresos en la factura.
type Sender struct {
	Name         string     `json:"name"`
	EntityNumber string     `json:"entityNumber"`
	EntityType   EntityType `json:"entityType,omitempty"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	Phone        string     `json:"phone,omitempty"`
	IBAN         string     `json:"iban,omitempty"`
}

// BillTo datos del destinatario impresos en la factura.
type BillTo struct {
	Name          string `json:"name"`
	CompanyNumber string `json:"companyNumber,omitempty"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	Zip           string `json:"zip,omitempty"`
	Country       string `json:"country"`
}

// InvoiceItem línea de factura. El importe no se guarda: se deriva de Qty*UnitPrice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Period      string  `json:"period"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
}

// TimesheetRow proyección de una entrada de tiempo para la página de resumen.
type TimesheetRow struct {
	Seconds string `json:"seconds"` // horas con 2 decimales (duration/3600)
	Name    string `json:"name"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Invoice representa el borrador de una factura (sin totales calculados).
type Invoice struct {
	ID         int64
	UID        string
	Kind       string
	Number     string
	IssueDate  string
	DueDate    string
	Sender     Sender
	BillTo     BillTo
	Items      []InvoiceItem
	TaxRate    float64
	Timesheets []TimesheetRow
	CreatedAt  time.Time
}
