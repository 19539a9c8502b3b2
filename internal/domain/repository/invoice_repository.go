package repository

import (
	"context"
	"time"

	"github.com/jhoicas/invoicer/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas almacenadas.
type InvoiceFilter struct {
	Client string // nombre exacto del destinatario; vacío = todos
	Limit  int    // <= 0 = sin límite
}

// NumberFunc deriva el número definitivo a partir del ID asignado.
type NumberFunc func(id int64) string

// InvoiceRepository define el puerto de persistencia para facturas.
// Las facturas se escriben una sola vez: no hay Update.
type InvoiceRepository interface {
	// Create persiste el borrador en una transacción: inserta, deriva el número
	// con number(id) y lo fija antes del commit. Rellena ID, UID, Number y CreatedAt.
	Create(ctx context.Context, invoice *entity.Invoice, number NumberFunc) (int64, error)
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// List devuelve las facturas más recientes primero.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	// CountSince cuenta las facturas de un origen creadas desde since (inclusive).
	CountSince(ctx context.Context, kind string, since time.Time) (int, error)
}
