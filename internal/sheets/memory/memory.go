// Package memory is an in-process report sink, used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cuzdan/internal/report"
	ports "cuzdan/internal/sheets"
)

type Sink struct {
	mu      sync.Mutex
	reports map[string]Report
	writes  int
	err     error
}

// Report is one stored tab.
type Report struct {
	Tab  string
	Data report.ExportData
	Rows [][]any
}

var _ ports.ReportWriter = (*Sink)(nil)

func New() *Sink {
	return &Sink{reports: make(map[string]Report)}
}

// FailWith makes every following write return err. A nil err clears it.
func (s *Sink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// WriteReport stores data under its tab name, replacing any earlier report.
func (s *Sink) WriteReport(_ context.Context, data report.ExportData) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	tab := ports.TabName(data)
	if tab == "" {
		return "", errors.New("empty tab name")
	}
	s.reports[tab] = Report{Tab: tab, Data: data, Rows: ports.ReportRows(data)}
	s.writes++
	return fmt.Sprintf("mem:%s", tab), nil
}

// Get returns the report stored under tab.
func (s *Sink) Get(tab string) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[tab]
	return r, ok
}

// Tabs returns the stored tab names in sorted order.
func (s *Sink) Tabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.reports))
	for tab := range s.reports {
		out = append(out, tab)
	}
	sort.Strings(out)
	return out
}

// Writes counts successful writes, including overwrites.
func (s *Sink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
