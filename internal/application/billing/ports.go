package billing

import (
	"context"
	"time"

	domainbilling "github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
)

// ContractsSource origen del archivo de contratos (YAML validado).
type ContractsSource interface {
	Load() (*entity.ContractsData, error)
}

// EntriesFetcher obtiene entradas de tiempo finalizadas en [startDate, endDate].
type EntriesFetcher interface {
	FetchEntries(ctx context.Context, startDate, endDate string) ([]entity.TimeEntry, error)
}

// InvoiceRenderer produce el documento PDF de una factura calculada.
type InvoiceRenderer interface {
	Render(ctx context.Context, c domainbilling.ComputedInvoice) ([]byte, error)
	WriteFile(ctx context.Context, c domainbilling.ComputedInvoice, path string) error
}

// Clock permite fijar "ahora" en los tests.
type Clock func() time.Time
