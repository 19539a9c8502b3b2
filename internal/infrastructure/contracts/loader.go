// Package contracts lee y valida el archivo YAML de contratos y emisor.
package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/entity"
)

// Loader implementa la lectura del archivo de contratos desde una ruta fija.
type Loader struct {
	path string
}

// NewLoader construye el loader para la ruta indicada.
func NewLoader(path string) *Loader { return &Loader{path: path} }

// Load lee el archivo configurado en el loader.
func (l *Loader) Load() (*entity.ContractsData, error) { return Load(l.path) }

// Path ruta del archivo.
func (l *Loader) Path() string { return l.path }

// Load lee el YAML con una instancia propia de viper y lo valida.
func Load(path string) (*entity.ContractsData, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigRead, path, err)
	}

	var data entity.ContractsData
	if err := v.Unmarshal(&data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigRead, path, err)
	}
	if err := Validate(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate comprueba el esquema y devuelve todas las violaciones encontradas
// envueltas en domain.ErrInvalidConfig.
func Validate(data *entity.ContractsData) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	o := data.Owner
	required := []struct{ field, value string }{
		{"owner.name", o.Name},
		{"owner.address", o.Address},
		{"owner.city", o.City},
		{"owner.country", o.Country},
		{"owner.iban", o.IBAN},
		{"owner.invoice.prefix", o.Invoice.Prefix},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			add("%s is required", r.field)
		}
	}
	switch o.EntityType {
	case "", entity.EntityEntrepreneurship, entity.EntityCompany:
	default:
		add("owner.entityType %q must be entrepreneurship or company", o.EntityType)
	}

	seen := make(map[string]bool, len(data.Contracts))
	for i, c := range data.Contracts {
		where := fmt.Sprintf("contracts[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			add("%s.name is required", where)
		} else {
			where = fmt.Sprintf("contracts[%s]", c.Name)
			if seen[c.Name] {
				add("%s is duplicated", where)
			}
			seen[c.Name] = true
		}
		if c.Notice < 0 {
			add("%s.notice must be >= 0", where)
		}
		if c.Tax < 0 || c.Tax > 100 {
			add("%s.tax must be between 0 and 100", where)
		}
		names := make(map[string]bool, len(c.Services))
		for j, s := range c.Services {
			sw := fmt.Sprintf("%s.services[%d]", where, j)
			if strings.TrimSpace(s.Name) == "" {
				add("%s.name is required", sw)
			} else if names[s.Name] {
				add("%s.name %q is duplicated", sw, s.Name)
			}
			names[s.Name] = true
			if s.Price < 0 {
				add("%s.price must be >= 0", sw)
			}
			if s.Type != entity.ServiceFixed && s.Type != entity.ServiceHourly {
				add("%s.type %q must be fixed or hourly", sw, s.Type)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.New(strings.Join(problems, "; ")))
}
