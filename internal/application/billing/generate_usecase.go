package billing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
	domainbilling "github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
	"github.com/jhoicas/invoicer/pkg/logger"
)

// GenerateInput parámetros del comando generate.
type GenerateInput struct {
	Month     string // YYYY-MM; vacío = mes en curso
	Client    string // vacío = todos los contratos
	OutputDir string
}

// GeneratedInvoice resultado de un contrato procesado con éxito.
type GeneratedInvoice struct {
	ID     int64
	Number string
	Client string
	Path   string
	Total  float64
}

// ContractFailure fallo aislado de un contrato.
type ContractFailure struct {
	Client string
	Err    error
}

// GenerateReport resumen de una ejecución de generate.
type GenerateReport struct {
	Period    domainbilling.Period
	Generated []GeneratedInvoice
	Failed    []ContractFailure
}

// Err une los fallos por contrato; nil si todos terminaron bien.
func (r *GenerateReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Client, f.Err))
	}
	return errors.Join(errs...)
}

// GenerateUseCase genera una factura por contrato a partir de las entradas de tiempo del mes.
type GenerateUseCase struct {
	contracts ContractsSource
	entries   EntriesFetcher
	repo      repository.InvoiceRepository
	renderer  InvoiceRenderer
	loc       *time.Location
	now       Clock
	log       *logger.Logger
}

// NewGenerateUseCase construye el caso de uso.
func NewGenerateUseCase(
	contracts ContractsSource,
	entries EntriesFetcher,
	repo repository.InvoiceRepository,
	renderer InvoiceRenderer,
	loc *time.Location,
	now Clock,
	log *logger.Logger,
) *GenerateUseCase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GenerateUseCase{
		contracts: contracts,
		entries:   entries,
		repo:      repo,
		renderer:  renderer,
		loc:       loc,
		now:       now,
		log:       log,
	}
}

// Execute procesa los contratos en orden. Los errores previos al bucle
// (contratos, directorio, mes, fetch) abortan la ejecución; los de cada
// contrato se acumulan en el informe y en el error devuelto.
func (uc *GenerateUseCase) Execute(ctx context.Context, in GenerateInput) (*GenerateReport, error) {
	now := uc.now().In(uc.loc)

	// ── 1. Contratos ──────────────────────────────────────────────────────────
	data, err := uc.contracts.Load()
	if err != nil {
		return nil, err
	}
	contracts := data.Contracts
	if in.Client != "" {
		c, ok := data.FindContract(in.Client)
		if !ok {
			return &GenerateReport{}, &domain.ContractNotFoundError{Client: in.Client}
		}
		contracts = []entity.Contract{*c}
	}

	// ── 2. Directorio de salida ───────────────────────────────────────────────
	if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCreateDir, in.OutputDir, err)
	}

	// ── 3. Periodo ────────────────────────────────────────────────────────────
	period, err := domainbilling.ResolvePeriod(in.Month, now)
	if err != nil {
		return nil, err
	}
	report := &GenerateReport{Period: period}
	if len(contracts) == 0 {
		uc.log.Warn().Msg("no hay contratos configurados")
		return report, nil
	}

	// ── 4. Entradas de tiempo ─────────────────────────────────────────────────
	entries, err := uc.entries.FetchEntries(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	byClient := domainbilling.GroupByClient(entries)
	uc.log.Info().
		Str("period", period.Label()).
		Int("entries", len(entries)).
		Int("contracts", len(contracts)).
		Msg("generando facturas")

	// ── 5. Un contrato cada vez ───────────────────────────────────────────────
	for _, contract := range contracts {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, ContractFailure{Client: contract.Name, Err: err})
			continue
		}
		group, _ := byClient.Get(contract.Name)
		gen, err := uc.generateOne(ctx, data.Owner, contract, group.Entries, period, now, in.OutputDir)
		if err != nil {
			uc.log.Error().Err(err).Str("client", contract.Name).Msg("factura no generada")
			report.Failed = append(report.Failed, ContractFailure{Client: contract.Name, Err: err})
			continue
		}
		uc.log.Info().
			Str("client", gen.Client).
			Int64("invoice_id", gen.ID).
			Str("number", gen.Number).
			Str("path", gen.Path).
			Msg("factura generada")
		report.Generated = append(report.Generated, *gen)
	}
	return report, report.Err()
}

func (uc *GenerateUseCase) generateOne(
	ctx context.Context,
	owner entity.Owner,
	contract entity.Contract,
	entries []entity.TimeEntry,
	period domainbilling.Period,
	now time.Time,
	outputDir string,
) (*GeneratedInvoice, error) {
	draft, err := domainbilling.AssembleInvoice(domainbilling.AssembleInput{
		Contract: contract,
		Owner:    owner,
		Period:   period,
		Entries:  entries,
		Now:      now,
		Location: uc.loc,
	})
	if err != nil {
		return nil, err
	}
	draft.CreatedAt = now

	prefix := owner.Invoice.Prefix
	id, err := uc.repo.Create(ctx, draft, func(id int64) string {
		return domainbilling.GeneratedNumber(prefix, now, id)
	})
	if err != nil {
		return nil, err
	}

	computed := domainbilling.Compute(*draft)
	path := outputPath(outputDir, GeneratedFileName(contract.Name, period.MonthLabel()))
	if err := uc.renderer.WriteFile(ctx, computed, path); err != nil {
		return nil, err
	}
	return &GeneratedInvoice{
		ID:     id,
		Number: draft.Number,
		Client: contract.Name,
		Path:   path,
		Total:  computed.Total,
	}, nil
}
