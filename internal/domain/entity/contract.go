package entity

// ServiceType distingue servicios de precio fijo y servicios por hora.
type ServiceType string

const (
	ServiceFixed  ServiceType = "fixed"
	ServiceHourly ServiceType = "hourly"
)

// Service es una oferta facturable dentro de un contrato.
type Service struct {
	Name  string      `mapstructure:"name"`
	Price float64     `mapstructure:"price"`
	Type  ServiceType `mapstructure:"type"`
}

// Contract representa las condiciones de facturación de un cliente.
type Contract struct {
	Name           string    `mapstructure:"name"`
	CompanyNumber  string    `mapstructure:"companyNumber"`
	Address        string    `mapstructure:"address"`
	City           string    `mapstructure:"city"`
	State          string    `mapstructure:"state"`
	Zip            string    `mapstructure:"zip"`
	Country        string    `mapstructure:"country"`
	Lang           string    `mapstructure:"lang"`
	TrackingNumber int       `mapstructure:"trackingNumber"`
	Notice         int       `mapstructure:"notice"` // días sumados al fin de mes para el vencimiento
	Tax            float64   `mapstructure:"tax"`    // porcentaje
	Services       []Service `mapstructure:"services"`
}

// Service busca un servicio del contrato por nombre exacto.
func (c Contract) Service(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// FixedServices devuelve los servicios de precio fijo en el orden del contrato.
func (c Contract) FixedServices() []Service {
	var fixed []Service
	for _, s := range c.Services {
		if s.Type == ServiceFixed {
			fixed = append(fixed, s)
		}
	}
	return fixed
}

// BillTo proyecta el contrato sobre los datos del destinatario de la factura.
func (c Contract) BillTo() BillTo {
	return BillTo{
		Name:          c.Name,
		CompanyNumber: c.CompanyNumber,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		Country:       c.Country,
	}
}

// ContractsData es el contenido completo del archivo de contratos.
type ContractsData struct {
	Owner     Owner      `mapstructure:"owner"`
	Contracts []Contract `mapstructure:"contracts"`
}

// FindContract busca un contrato por nombre de cliente.
func (d *ContractsData) FindContract(client string) (*Contract, bool) {
	for i := range d.Contracts {
		if d.Contracts[i].Name == client {
			return &d.Contracts[i], true
		}
	}
	return nil, false
}
