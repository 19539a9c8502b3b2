package entity

import "time"

// TimeEntry es un intervalo registrado en el servicio de time-tracking.
type TimeEntry struct {
	ClientName  string
	ProjectName string
	Description string
	Duration    int64 // segundos
	Start       time.Time
	Stop        time.Time
}
