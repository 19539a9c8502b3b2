package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidMonth        = errors.New("invalid month, expected YYYY-MM")
	ErrConfigRead          = errors.New("failed to read config")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrCreateDir           = errors.New("failed to create directory")
	ErrFetchEntries        = errors.New("failed to fetch time entries")
	ErrServiceNotAvailable = errors.New("service not available for client")
	ErrContractNotFound    = errors.New("no contract found for client")
	ErrPersist             = errors.New("failed to persist invoice")
	ErrRender              = errors.New("failed to render invoice")
)

// ServiceNotAvailableError indica que un proyecto con horas registradas no
// tiene un servicio con el mismo nombre en el contrato del cliente.
type ServiceNotAvailableError struct {
	Service string
	Client  string
}

func (e *ServiceNotAvailableError) Error() string {
	return fmt.Sprintf("Service %s is not available for client %s", e.Service, e.Client)
}

// Is permite errors.Is(err, ErrServiceNotAvailable).
func (e *ServiceNotAvailableError) Is(target error) bool {
	return target == ErrServiceNotAvailable
}

// ContractNotFoundError indica que el filtro de cliente no coincide con ningún contrato.
type ContractNotFoundError struct {
	Client string
}

func (e *ContractNotFoundError) Error() string {
	return "No contract found for client: " + e.Client
}

func (e *ContractNotFoundError) Is(target error) bool {
	return target == ErrContractNotFound
}
