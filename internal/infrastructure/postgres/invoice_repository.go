package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/billing"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL. Guarda además
// los totales redondeados a 2 decimales para consultas y reportes.
type InvoiceRepo struct {
	db TxBeginner
	tx *TxRunner
}

// NewInvoiceRepository construye el adaptador sobre un pool.
func NewInvoiceRepository(db TxBeginner) *InvoiceRepo {
	return &InvoiceRepo{db: db, tx: NewTxRunner(db)}
}

// Create persiste la factura y fija su número en la misma transacción.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice, number repository.NumberFunc) (int64, error) {
	if invoice.UID == "" {
		invoice.UID = uuid.NewString()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	if invoice.Kind == "" {
		invoice.Kind = entity.InvoiceKindGenerated
	}
	items := invoice.Items
	if items == nil {
		items = []entity.InvoiceItem{}
	}
	timesheets := invoice.Timesheets
	if timesheets == nil {
		timesheets = []entity.TimesheetRow{}
	}
	totals := billing.Compute(*invoice)

	var id int64
	final := invoice.Number
	err := r.tx.Run(ctx, func(tx Querier) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (
				uid, kind, number, issue_date, due_date, bill_to_name,
				sender, bill_to, items, timesheets,
				tax_rate, subtotal, tax_total, grand_total, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			invoice.UID, invoice.Kind, invoice.Number, invoice.IssueDate, invoice.DueDate, invoice.BillTo.Name,
			invoice.Sender, invoice.BillTo, items, timesheets,
			decimal.NewFromFloat(invoice.TaxRate),
			round2(totals.Subtotal), round2(totals.Tax), round2(totals.Total),
			invoice.CreatedAt,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("invoice uid already exists: %w", err)
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		if number == nil {
			return nil
		}
		final = number(id)
		if _, err := tx.Exec(ctx, `UPDATE invoices SET number = $2 WHERE id = $1`, id, final); err != nil {
			return fmt.Errorf("set number: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}
	invoice.ID = id
	invoice.Number = final
	return id, nil
}

const selectColumns = `
	SELECT id, uid::text, kind, number,
	       to_char(issue_date, 'YYYY-MM-DD'), to_char(due_date, 'YYYY-MM-DD'),
	       sender, bill_to, items, timesheets, tax_rate, created_at
	FROM invoices`

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List devuelve las facturas más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := selectColumns + ` WHERE ($1 = '' OR bill_to_name = $1) ORDER BY id DESC`
	args := []any{filter.Client}
	if filter.Limit > 0 {
		query += ` LIMIT $2`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountSince cuenta las facturas de un origen creadas desde since.
func (r *InvoiceRepo) CountSince(ctx context.Context, kind string, since time.Time) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE kind = $1 AND created_at >= $2`, kind, since,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv     entity.Invoice
		taxRate decimal.Decimal
	)
	// JSONB se decodifica directamente en los structs con encoding/json.
	if err := row.Scan(
		&inv.ID, &inv.UID, &inv.Kind, &inv.Number, &inv.IssueDate, &inv.DueDate,
		&inv.Sender, &inv.BillTo, &inv.Items, &inv.Timesheets, &taxRate, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	inv.TaxRate = taxRate.InexactFloat64()
	return &inv, nil
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
