package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
	domainbilling "github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
)

// ── Contratos ─────────────────────────────────────────────────────────────────

type fakeContracts struct {
	data *entity.ContractsData
	err  error
}

func (f *fakeContracts) Load() (*entity.ContractsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func sampleContracts() *entity.ContractsData {
	return &entity.ContractsData{
		Owner: entity.Owner{
			Name:         "Jane Doe",
			Address:      "1 Main St",
			City:         "Springfield",
			Country:      "USA",
			IBAN:         "DE00 0000",
			EntityNumber: "123",
			EntityType:   entity.EntityEntrepreneurship,
			Invoice:      entity.OwnerInvoice{Prefix: "JD"},
		},
		Contracts: []entity.Contract{
			{
				Name:    "Acme",
				Address: "2 Elm St",
				City:    "Shelbyville",
				Country: "USA",
				Notice:  15,
				Tax:     21,
				Services: []entity.Service{
					{Name: "Retainer", Price: 500, Type: entity.ServiceFixed},
					{Name: "Dev", Price: 60, Type: entity.ServiceHourly},
				},
			},
			{
				Name:    "Globex",
				Address: "3 Oak St",
				City:    "Capital City",
				Country: "USA",
				Services: []entity.Service{
					{Name: "Consulting", Price: 95.5, Type: entity.ServiceHourly},
				},
			},
		},
	}
}

// ── Entradas de tiempo ────────────────────────────────────────────────────────

type fakeEntries struct {
	entries []entity.TimeEntry
	err     error
	calls   int
	start   string
	end     string
}

func (f *fakeEntries) FetchEntries(_ context.Context, startDate, endDate string) ([]entity.TimeEntry, error) {
	f.calls++
	f.start, f.end = startDate, endDate
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func entry(client, project string, start time.Time, seconds int64) entity.TimeEntry {
	return entity.TimeEntry{
		ClientName:  client,
		ProjectName: project,
		Description: project + " work",
		Duration:    seconds,
		Start:       start,
		Stop:        start.Add(time.Duration(seconds) * time.Second),
	}
}

// ── Repositorio en memoria ────────────────────────────────────────────────────

type memRepo struct {
	mu        sync.Mutex
	invoices  []*entity.Invoice
	createErr error
	countErr  error
	webToday  int
}

var _ repository.InvoiceRepository = (*memRepo)(nil)

func (r *memRepo) Create(_ context.Context, inv *entity.Invoice, number repository.NumberFunc) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersist, r.createErr)
	}
	id := int64(len(r.invoices) + 1)
	inv.ID = id
	inv.UID = fmt.Sprintf("uid-%d", id)
	if number != nil {
		inv.Number = number(id)
	}
	cp := *inv
	r.invoices = append(r.invoices, &cp)
	return id, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for i := len(r.invoices) - 1; i >= 0; i-- {
		inv := r.invoices[i]
		if f.Client != "" && inv.BillTo.Name != f.Client {
			continue
		}
		out = append(out, inv)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// CountSince suma webToday (facturas "previas") a las web ya guardadas.
func (r *memRepo) CountSince(_ context.Context, kind string, _ time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	if kind != entity.InvoiceKindWeb {
		return 0, nil
	}
	n := r.webToday
	for _, inv := range r.invoices {
		if inv.Kind == kind {
			n++
		}
	}
	return n, nil
}

// ── Renderer ──────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	written map[string]domainbilling.ComputedInvoice
	failFor string // cliente cuyo render falla
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{written: map[string]domainbilling.ComputedInvoice{}}
}

func (f *fakeRenderer) Render(_ context.Context, c domainbilling.ComputedInvoice) ([]byte, error) {
	if f.failFor != "" && c.Invoice.BillTo.Name == f.failFor {
		return nil, fmt.Errorf("%w: boom", domain.ErrRender)
	}
	return []byte("%PDF-1.3 " + c.Invoice.Number), nil
}

func (f *fakeRenderer) WriteFile(ctx context.Context, c domainbilling.ComputedInvoice, path string) error {
	if _, err := f.Render(ctx, c); err != nil {
		return err
	}
	f.written[path] = c
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var errBoom = errors.New("boom")
