package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/invoicer/internal/application/dto"
	domainbilling "github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
	"github.com/jhoicas/invoicer/pkg/logger"
	"github.com/jhoicas/invoicer/pkg/numbering"
)

// WebInvoice PDF listo para descargar.
type WebInvoice struct {
	ID       int64
	Number   string
	Filename string
	PDF      []byte
}

// WebUseCase factura del formulario web: valida, persiste, numera y renderiza en memoria.
type WebUseCase struct {
	repo     repository.InvoiceRepository
	renderer InvoiceRenderer
	template string
	loc      *time.Location
	now      Clock
	log      *logger.Logger

	// numMu cubre el conteo del día y el insert que consume ese número
	numMu sync.Mutex
}

// NewWebUseCase construye el caso de uso. template vacío = numbering.DefaultTemplate.
func NewWebUseCase(
	repo repository.InvoiceRepository,
	renderer InvoiceRenderer,
	template string,
	loc *time.Location,
	now Clock,
	log *logger.Logger,
) *WebUseCase {
	if template == "" {
		template = numbering.DefaultTemplate
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WebUseCase{repo: repo, renderer: renderer, template: template, loc: loc, now: now, log: log}
}

// Generate produce el PDF completo antes de devolver nada, así el handler
// puede responder con un error JSON si algo falla.
func (uc *WebUseCase) Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (*WebInvoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	draft := req.ToInvoice()
	draft.CreatedAt = uc.now()

	id, err := uc.store(ctx, draft, uc.templateFor(req.NumberTemplate))
	if err != nil {
		return nil, err
	}

	pdf, err := uc.renderer.Render(ctx, domainbilling.Compute(*draft))
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("invoice_id", id).
		Str("number", draft.Number).
		Str("client", draft.BillTo.Name).
		Msg("factura web generada")

	return &WebInvoice{
		ID:       id,
		Number:   draft.Number,
		Filename: WebFileName(draft.Number),
		PDF:      pdf,
	}, nil
}

// store persiste el borrador. Sin número explícito, el conteo y el insert van
// bajo numMu para que dos peticiones simultáneas no reciban el mismo {{ inc }}.
func (uc *WebUseCase) store(ctx context.Context, draft *entity.Invoice, template string) (int64, error) {
	if draft.Number != "" {
		return uc.repo.Create(ctx, draft, nil)
	}

	uc.numMu.Lock()
	defer uc.numMu.Unlock()
	next, err := uc.nextNumber(ctx, template)
	if err != nil {
		return 0, err
	}
	draft.Number = entity.PlaceholderNumber
	return uc.repo.Create(ctx, draft, func(int64) string { return next })
}

// PreviewNumber número que recibiría la próxima factura web con esa plantilla.
func (uc *WebUseCase) PreviewNumber(ctx context.Context, template string) (dto.NumberPreviewResponse, error) {
	template = uc.templateFor(template)
	next, err := uc.nextNumber(ctx, template)
	if err != nil {
		return dto.NumberPreviewResponse{}, err
	}
	return dto.NumberPreviewResponse{Template: template, Number: next}, nil
}

func (uc *WebUseCase) templateFor(template string) string {
	if strings.TrimSpace(template) == "" {
		return uc.template
	}
	return template
}

func (uc *WebUseCase) nextNumber(ctx context.Context, template string) (string, error) {
	now := uc.now().In(uc.loc)
	count := 0
	if numbering.HasIncrement(template) {
		var err error
		count, err = uc.repo.CountSince(ctx, entity.InvoiceKindWeb, numbering.StartOfDay(now))
		if err != nil {
			return "", err
		}
	}
	return numbering.Next(template, now, count), nil
}
