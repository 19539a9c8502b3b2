package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/domain"
	domainbilling "github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
	"github.com/jhoicas/invoicer/pkg/logger"
)

// customDueDays plazo de vencimiento por defecto de una factura personalizada.
const customDueDays = 30

// CustomInput parámetros del comando custom.
type CustomInput struct {
	Client    string
	Items     []dto.ItemRequest
	IssueDate string // vacío = hoy
	DueDate   string // vacío = emisión + 30 días
	OutputDir string
}

// CustomResult factura personalizada ya persistida y escrita.
type CustomResult struct {
	ID     int64
	Number string
	Path   string
	Client string
	Total  float64
}

// ParseItems decodifica el JSON de --items. Vacío equivale a "[]".
func ParseItems(raw string) ([]dto.ItemRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []dto.ItemRequest{}, nil
	}
	var items []dto.ItemRequest
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: items must be a JSON array: %v", domain.ErrInvalidInput, err)
	}
	return items, nil
}

// CustomUseCase crea una factura a partir de ítems indicados a mano para un contrato.
type CustomUseCase struct {
	contracts ContractsSource
	repo      repository.InvoiceRepository
	renderer  InvoiceRenderer
	loc       *time.Location
	now       Clock
	log       *logger.Logger
}

// NewCustomUseCase construye el caso de uso.
func NewCustomUseCase(
	contracts ContractsSource,
	repo repository.InvoiceRepository,
	renderer InvoiceRenderer,
	loc *time.Location,
	now Clock,
	log *logger.Logger,
) *CustomUseCase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CustomUseCase{contracts: contracts, repo: repo, renderer: renderer, loc: loc, now: now, log: log}
}

// Contract devuelve el contrato del cliente (lo usa el modo interactivo para listar servicios).
func (uc *CustomUseCase) Contract(client string) (*entity.Contract, error) {
	data, err := uc.contracts.Load()
	if err != nil {
		return nil, err
	}
	c, ok := data.FindContract(client)
	if !ok {
		return nil, &domain.ContractNotFoundError{Client: client}
	}
	return c, nil
}

// Execute valida la entrada, persiste, numera ({prefijo}{id}) y escribe el PDF.
func (uc *CustomUseCase) Execute(ctx context.Context, in CustomInput) (*CustomResult, error) {
	data, err := uc.contracts.Load()
	if err != nil {
		return nil, err
	}
	contract, ok := data.FindContract(in.Client)
	if !ok {
		return nil, &domain.ContractNotFoundError{Client: in.Client}
	}

	today := uc.now().In(uc.loc)
	issue := in.IssueDate
	if issue == "" {
		issue = today.Format(time.DateOnly)
	}
	due := in.DueDate
	if due == "" {
		due = today.AddDate(0, 0, customDueDays).Format(time.DateOnly)
	}
	if err := dto.ValidateDate("issueDate", issue); err != nil {
		return nil, err
	}
	if err := dto.ValidateDate("dueDate", due); err != nil {
		return nil, err
	}
	if err := dto.ValidateItems(in.Items); err != nil {
		return nil, err
	}

	items := make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		period := strings.TrimSpace(it.Period)
		if period == "" {
			period = issue
		}
		items = append(items, entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Period:      period,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
		})
	}

	draft := &entity.Invoice{
		Kind:      entity.InvoiceKindCustom,
		Number:    entity.PlaceholderNumber,
		IssueDate: issue,
		DueDate:   due,
		Sender:    data.Owner.Sender(),
		BillTo:    contract.BillTo(),
		Items:     items,
		TaxRate:   contract.Tax,
		CreatedAt: today,
	}

	if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCreateDir, in.OutputDir, err)
	}

	prefix := data.Owner.Invoice.Prefix
	id, err := uc.repo.Create(ctx, draft, func(id int64) string {
		return domainbilling.CustomNumber(prefix, id)
	})
	if err != nil {
		return nil, err
	}

	computed := domainbilling.Compute(*draft)
	path := outputPath(in.OutputDir, CustomFileName(contract.Name, issue))
	if err := uc.renderer.WriteFile(ctx, computed, path); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("client", contract.Name).
		Int64("invoice_id", id).
		Str("number", draft.Number).
		Str("path", path).
		Msg("factura personalizada generada")

	return &CustomResult{
		ID:     id,
		Number: draft.Number,
		Path:   path,
		Client: contract.Name,
		Total:  computed.Total,
	}, nil
}
