package billing

import "github.com/jhoicas/invoicer/internal/domain/entity"

// EntryGroup entradas de tiempo que comparten la misma clave.
type EntryGroup struct {
	Key     string
	Entries []entity.TimeEntry
}

// TotalSeconds suma aritmética de las duraciones del grupo.
func (g EntryGroup) TotalSeconds() int64 {
	var total int64
	for _, e := range g.Entries {
		total += e.Duration
	}
	return total
}

// Hours duración total en horas fraccionarias, sin redondeo.
func (g EntryGroup) Hours() float64 {
	return float64(g.TotalSeconds()) / 3600
}

// Groups grupos en orden de primera aparición de la clave.
type Groups []EntryGroup

// Get devuelve el grupo con la clave indicada.
func (gs Groups) Get(key string) (EntryGroup, bool) {
	for _, g := range gs {
		if g.Key == key {
			return g, true
		}
	}
	return EntryGroup{}, false
}

// Keys devuelve las claves en orden.
func (gs Groups) Keys() []string {
	keys := make([]string, 0, len(gs))
	for _, g := range gs {
		keys = append(keys, g.Key)
	}
	return keys
}

// GroupBy agrupa sin descartar ni deduplicar entradas: duplicados exactos suman dos veces.
func GroupBy(entries []entity.TimeEntry, key func(entity.TimeEntry) string) Groups {
	index := make(map[string]int)
	var groups Groups
	for _, e := range entries {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, EntryGroup{Key: k})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// GroupByClient primer nivel: por nombre de cliente.
func GroupByClient(entries []entity.TimeEntry) Groups {
	return GroupBy(entries, func(e entity.TimeEntry) string { return e.ClientName })
}

// GroupByProject segundo nivel: por nombre de proyecto/servicio.
func GroupByProject(entries []entity.TimeEntry) Groups {
	return GroupBy(entries, func(e entity.TimeEntry) string { return e.ProjectName })
}
