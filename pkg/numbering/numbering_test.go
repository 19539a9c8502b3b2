package numbering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoicer/pkg/numbering"
)

var day = time.Date(2025, time.July, 12, 15, 4, 0, 0, time.UTC)

func TestNext_Plantillas(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"PROJ-{{ inc }}", "PROJ-001"},
		{"INV-{{YEAR}}-{{MONTH}}-{{DAY}}-{{ inc }}", "INV-2025-07-12-001"},
		{"{{YEAR}}{{MONTH}}-{{ inc }}", "202507-001"},
		{"CLIENT-A-{{ inc }}", "CLIENT-A-001"},
		{"Q3-{{YEAR}}-{{ inc }}", "Q3-2025-001"},
		{"{{YEAR}}/{{MM}}/{{DD}}-{{inc}}", "2025/07/12-001"},
		{"TEST-{{  inc  }}", "TEST-001"},
		{"PROJ_2025.{{ inc }}-FINAL", "PROJ_2025.001-FINAL"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, numbering.Next(tt.template, day, 0))
		})
	}
}

func TestNext_ContadorDiario(t *testing.T) {
	assert.Equal(t, "INV-2025-07-12-005", numbering.Next("", day, 4))
	assert.Equal(t, "X-1234", numbering.Next("X-{{ inc }}", day, 1233))
}

func TestNext_SinContador(t *testing.T) {
	assert.Equal(t, "FIXED-2025", numbering.Next("FIXED-{{YEAR}}", day, 9))
	assert.False(t, numbering.HasIncrement("FIXED-{{YEAR}}"))
}

func TestRender_MarcadoresMalFormados(t *testing.T) {
	assert.Equal(t, "INVALID-{{ inc", numbering.Render("INVALID-{{ inc", day, 1))
	assert.Equal(t, "BAD-{inc}", numbering.Render("BAD-{inc}", day, 1))
}

func TestStartOfDay(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.July, 12, 0, 0, 0, 0, time.UTC), numbering.StartOfDay(day))
}
