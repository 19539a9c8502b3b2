// Package billing contiene la lógica pura de facturación: resolución del
// periodo, agrupación de entradas de tiempo, ensamblado del borrador y
// cálculo de totales. No realiza I/O.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
)

const monthLayout = "2006-01"

// Period rango mensual de facturación en fechas ISO (YYYY-MM-DD).
type Period struct {
	Month time.Time // primer día del mes, 00:00 en la zona de referencia
	Start string
	End   string
}

// Label texto impreso en la columna de periodo de los ítems.
func (p Period) Label() string {
	return p.Start + " - " + p.End
}

// MonthLabel devuelve el mes en formato YYYY-MM.
func (p Period) MonthLabel() string {
	return p.Month.Format(monthLayout)
}

// ResolvePeriod convierte "YYYY-MM" (vacío = mes de now) en el rango inicio/fin del mes.
func ResolvePeriod(month string, now time.Time) (Period, error) {
	loc := now.Location()
	var first time.Time
	month = strings.TrimSpace(month)
	if month == "" {
		first = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	} else {
		t, err := time.ParseInLocation(monthLayout, month, loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, month)
		}
		first = t
	}
	return Period{
		Month: first,
		Start: first.Format(time.DateOnly),
		End:   EndOfMonth(first).Format(time.DateOnly),
	}, nil
}

// EndOfMonth devuelve el último día del mes de t (misma hora y zona).
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DueDate fin del mes en curso (según now) más los días de preaviso del contrato.
func DueDate(now time.Time, noticeDays int) string {
	return EndOfMonth(now).AddDate(0, 0, noticeDays).Format(time.DateOnly)
}
