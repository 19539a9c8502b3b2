// Package sqlite implementa la persistencia de facturas sobre un archivo SQLite.
// Es el almacenamiento por defecto de la CLI.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// formato de created_at: UTC con ancho fijo para que el orden textual sea el cronológico
const timestampLayout = "2006-01-02 15:04:05.000000"

// InvoiceRepo implementación de InvoiceRepository. Es dueña del *sql.DB.
type InvoiceRepo struct {
	db *sql.DB
}

// Open abre (o crea) la base de datos y aplica las migraciones.
func Open(ctx context.Context, path string) (*InvoiceRepo, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// un solo escritor; evita SQLITE_BUSY entre conexiones del pool
	db.SetMaxOpenConns(1)

	r := &InvoiceRepo{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return r, nil
}

// Close cierra la conexión.
func (r *InvoiceRepo) Close() error {
	return r.db.Close()
}

// migrate crea la tabla con las columnas históricas y añade las nuevas si faltan,
// de modo que una base creada por versiones anteriores sigue siendo válida.
func (r *InvoiceRepo) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issueDate TEXT NOT NULL,
		dueDate TEXT NOT NULL,
		billTo_name TEXT,
		billTo_companyNumber TEXT,
		items_json JSON,
		timesheets_json JSON
	)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	existing, err := r.columns(ctx)
	if err != nil {
		return err
	}
	added := []struct{ name, ddl string }{
		{"uid", "ALTER TABLE invoices ADD COLUMN uid TEXT"},
		{"kind", "ALTER TABLE invoices ADD COLUMN kind TEXT NOT NULL DEFAULT 'generated'"},
		{"number", "ALTER TABLE invoices ADD COLUMN number TEXT NOT NULL DEFAULT ''"},
		{"sender_json", "ALTER TABLE invoices ADD COLUMN sender_json JSON"},
		{"billTo_json", "ALTER TABLE invoices ADD COLUMN billTo_json JSON"},
		{"tax_rate", "ALTER TABLE invoices ADD COLUMN tax_rate REAL NOT NULL DEFAULT 0"},
		{"created_at", "ALTER TABLE invoices ADD COLUMN created_at TEXT NOT NULL DEFAULT ''"},
	}
	for _, col := range added {
		if existing[col.name] {
			continue
		}
		if _, err := r.db.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("columna %s: %w", col.name, err)
		}
	}

	indexes := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_uid ON invoices(uid) WHERE uid IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_invoices_billto_name ON invoices(billTo_name);
	CREATE INDEX IF NOT EXISTS idx_invoices_kind_created ON invoices(kind, created_at);`
	_, err = r.db.ExecContext(ctx, indexes)
	return err
}

func (r *InvoiceRepo) columns(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `PRAGMA table_info(invoices)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// Create inserta y numera la factura dentro de una transacción.
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

	enc, err := encodeJSON(invoice)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", domain.ErrPersist, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO invoices (
			uid, kind, number, issueDate, dueDate,
			billTo_name, billTo_companyNumber, sender_json, billTo_json,
			items_json, timesheets_json, tax_rate, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.UID, invoice.Kind, invoice.Number, invoice.IssueDate, invoice.DueDate,
		invoice.BillTo.Name, invoice.BillTo.CompanyNumber, enc.sender, enc.billTo,
		enc.items, enc.timesheets, invoice.TaxRate, formatTimestamp(invoice.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert invoice: %v", domain.ErrPersist, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %v", domain.ErrPersist, err)
	}

	final := invoice.Number
	if number != nil {
		final = number(id)
		if _, err := tx.ExecContext(ctx, `UPDATE invoices SET number = ? WHERE id = ?`, final, id); err != nil {
			return 0, fmt.Errorf("%w: set number: %v", domain.ErrPersist, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit transaction: %v", domain.ErrPersist, err)
	}
	// el borrador solo refleja lo que quedó guardado
	invoice.ID = id
	invoice.Number = final
	return id, nil
}

const selectColumns = `
	SELECT id, COALESCE(uid, ''), kind, number, issueDate, dueDate,
	       COALESCE(billTo_name, ''), COALESCE(billTo_companyNumber, ''),
	       sender_json, billTo_json, items_json, timesheets_json,
	       tax_rate, created_at
	FROM invoices`

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List devuelve las facturas más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if filter.Client != "" {
		where = append(where, "billTo_name = ?")
		args = append(args, filter.Client)
	}
	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE kind = ? AND created_at >= ?`,
		kind, formatTimestamp(since),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(s scanner) (*entity.Invoice, error) {
	var (
		inv                                  entity.Invoice
		billToName, billToCompany            string
		senderJSON, billToJSON               sql.NullString
		itemsJSON, timesheetsJSON, createdAt sql.NullString
	)
	if err := s.Scan(
		&inv.ID, &inv.UID, &inv.Kind, &inv.Number, &inv.IssueDate, &inv.DueDate,
		&billToName, &billToCompany,
		&senderJSON, &billToJSON, &itemsJSON, &timesheetsJSON,
		&inv.TaxRate, &createdAt,
	); err != nil {
		return nil, err
	}

	// filas antiguas solo tienen nombre y número de empresa del destinatario
	inv.BillTo = entity.BillTo{Name: billToName, CompanyNumber: billToCompany}
	for _, f := range []struct {
		raw  sql.NullString
		dest any
	}{
		{senderJSON, &inv.Sender},
		{billToJSON, &inv.BillTo},
		{itemsJSON, &inv.Items},
		{timesheetsJSON, &inv.Timesheets},
	} {
		if !f.raw.Valid || f.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw.String), f.dest); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	if createdAt.Valid && createdAt.String != "" {
		if t, err := time.ParseInLocation(timestampLayout, createdAt.String, time.UTC); err == nil {
			inv.CreatedAt = t
		}
	}
	return &inv, nil
}

type encodedInvoice struct {
	sender, billTo, items, timesheets string
}

func encodeJSON(inv *entity.Invoice) (encodedInvoice, error) {
	var out encodedInvoice
	items := inv.Items
	if items == nil {
		items = []entity.InvoiceItem{}
	}
	timesheets := inv.Timesheets
	if timesheets == nil {
		timesheets = []entity.TimesheetRow{}
	}
	for _, f := range []struct {
		v    any
		dest *string
	}{
		{inv.Sender, &out.sender},
		{inv.BillTo, &out.billTo},
		{items, &out.items},
		{timesheets, &out.timesheets},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return out, err
		}
		*f.dest = string(b)
	}
	return out, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
