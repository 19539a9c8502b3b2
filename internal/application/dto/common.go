package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// ListQuery filtros de listado (query string o flags de la CLI).
type ListQuery struct {
	Limit  int    `query:"limit"`
	Client string `query:"client"`
}

// DefaultLimit aplica el límite por defecto y el máximo.
func (q *ListQuery) DefaultLimit() {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// HealthResponse respuesta de GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
