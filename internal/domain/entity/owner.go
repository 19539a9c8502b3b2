package entity

// EntityType tipo jurídico del emisor.
type EntityType string

const (
	EntityEntrepreneurship EntityType = "entrepreneurship"
	EntityCompany          EntityType = "company"
)

// Owner representa al emisor de las facturas y sus datos bancarios.
type Owner struct {
	Name         string       `mapstructure:"name"`
	Email        string       `mapstructure:"email"`
	Address      string       `mapstructure:"address"`
	City         string       `mapstructure:"city"`
	Country      string       `mapstructure:"country"`
	Phone        string       `mapstructure:"phone"`
	IBAN         string       `mapstructure:"iban"`
	EntityNumber string       `mapstructure:"entityNumber"`
	EntityType   EntityType   `mapstructure:"entityType"`
	Invoice      OwnerInvoice `mapstructure:"invoice"`
}

// OwnerInvoice opciones de numeración del emisor.
type OwnerInvoice struct {
	Prefix string `mapstructure:"prefix"`
}

// Sender proyecta al emisor sobre los datos del remitente de la factura.
func (o Owner) Sender() Sender {
	return Sender{
		Name:         o.Name,
		EntityNumber: o.EntityNumber,
		EntityType:   o.EntityType,
		Address:      o.Address,
		City:         o.City,
		Country:      o.Country,
		Phone:        o.Phone,
		IBAN:         o.IBAN,
	}
}
