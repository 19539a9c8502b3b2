package billing

import (
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/invoicer/internal/domain/entity"
)

const (
	timesheetStartLayout = "2006-01-02 15:04:05"
	timesheetEndLayout   = "15:04:05"
)

// BuildTimesheets una fila por entrada (no por grupo), ordenadas por inicio.
// El orden lexicográfico sobre "yyyy-MM-dd HH:mm:ss" equivale al cronológico.
func BuildTimesheets(entries []entity.TimeEntry, loc *time.Location) []entity.TimesheetRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]entity.TimesheetRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entity.TimesheetRow{
			Seconds: strconv.FormatFloat(float64(e.Duration)/3600, 'f', 2, 64),
			Name:    e.Description,
			Start:   e.Start.In(loc).Format(timesheetStartLayout),
			End:     e.Stop.In(loc).Format(timesheetEndLayout),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Start < rows[j].Start })
	return rows
}
