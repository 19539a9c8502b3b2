package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/domain/repository"
	"github.com/jhoicas/invoicer/pkg/money"
)

// QueryUseCase consultas de facturas almacenadas (CLI list/view y API).
type QueryUseCase struct {
	repo  repository.InvoiceRepository
	money *money.Formatter
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.InvoiceRepository, f *money.Formatter) *QueryUseCase {
	return &QueryUseCase{repo: repo, money: f}
}

// List devuelve las facturas más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, q dto.ListQuery) ([]dto.InvoiceSummaryResponse, error) {
	q.DefaultLimit()
	invoices, err := uc.repo.List(ctx, repository.InvoiceFilter{Client: q.Client, Limit: q.Limit})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]dto.InvoiceSummaryResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.NewInvoiceSummary(inv, uc.money))
	}
	return out, nil
}

// Get devuelve el detalle de una factura; domain.ErrNotFound si no existe.
func (uc *QueryUseCase) Get(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewInvoiceResponse(inv)
	return &resp, nil
}
