package report

import (
	"sort"
	"strconv"
)

// HandlerSummary is one handler's totals across every history of a report.
type HandlerSummary struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Group    string  `json:"group" yaml:"group"`
	Count    int64   `json:"count" yaml:"count"`
	Total    int64   `json:"total" yaml:"total"`
	LagCount int64   `json:"lag_count" yaml:"lag_count"`
	LagTotal int64   `json:"lag_total" yaml:"lag_total"`
	Avg      float64 `json:"avg" yaml:"avg"`
}

// Summary condenses a report into its heaviest handlers.
type Summary struct {
	Server     string           `json:"server" yaml:"server"`
	Version    string           `json:"version" yaml:"version"`
	Duration   int64            `json:"duration" yaml:"duration"`
	Histories  int              `json:"histories" yaml:"histories"`
	TotalTicks int64            `json:"total_ticks" yaml:"total_ticks"`
	Handlers   []HandlerSummary `json:"handlers" yaml:"handlers"`
	More       int              `json:"more" yaml:"more"`
}

// Summarize totals handlers by id across all histories and returns the
// limit heaviest by total time. Handlers that never ran are left out.
// A limit of zero or less keeps every handler.
func Summarize(m *TimingsMaster, limit int) Summary {
	s := Summary{
		Server:   m.Server,
		Version:  m.Version,
		Duration: m.Duration,
	}

	byID := make(map[int]*HandlerSummary)
	for _, history := range m.Data.All() {
		s.Histories++
		s.TotalTicks += history.TotalTicks
		for _, h := range history.Handlers.All() {
			sum, ok := byID[h.ID]
			if !ok {
				sum = &HandlerSummary{ID: h.ID, Name: strconv.Itoa(h.ID)}
				if h.Identity != nil {
					sum.Name = h.Identity.Name
					sum.Group = h.Identity.Group
				}
				byID[h.ID] = sum
			}
			sum.Count += h.Count
			sum.Total += h.Total
			sum.LagCount += h.LagCount
			sum.LagTotal += h.LagTotal
		}
	}

	handlers := make([]HandlerSummary, 0, len(byID))
	for _, sum := range byID {
		if sum.Total <= 0 {
			continue
		}
		if sum.Count > 0 {
			sum.Avg = float64(sum.Total) / float64(sum.Count)
		}
		handlers = append(handlers, *sum)
	}
	sort.Slice(handlers, func(i, j int) bool {
		if handlers[i].Total != handlers[j].Total {
			return handlers[i].Total > handlers[j].Total
		}
		return handlers[i].ID < handlers[j].ID
	})

	if limit > 0 && len(handlers) > limit {
		s.More = len(handlers) - limit
		handlers = handlers[:limit]
	}
	s.Handlers = handlers
	return s
}
