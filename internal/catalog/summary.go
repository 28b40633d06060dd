package catalog

// Summary aggregates counts over a set of records.
type Summary struct {
	Total         int            `json:"total"`
	BySource      map[string]int `json:"bySource"`
	ByHealth      map[string]int `json:"byHealth"`
	WithTools     int            `json:"withTools"`
	WithResources int            `json:"withResources"`
	WithPrompts   int            `json:"withPrompts"`
	WithImage     int            `json:"withImage"`
}

// Summarize computes a Summary over the given records.
func Summarize(records []ServerRecord) Summary {
	s := Summary{
		Total:    len(records),
		BySource: map[string]int{},
		ByHealth: map[string]int{},
	}
	for _, r := range records {
		s.BySource[string(r.Source)]++
		s.ByHealth[string(r.Health.Status)]++
		if len(r.Tools) > 0 {
			s.WithTools++
		}
		if len(r.Resources) > 0 {
			s.WithResources++
		}
		if len(r.Prompts) > 0 {
			s.WithPrompts++
		}
		if r.ImageReference != "" {
			s.WithImage++
		}
	}
	return s
}
