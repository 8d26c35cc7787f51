package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

// Report is a single call captured by Recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it is meant for asserting
// that components report what they should in tests.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Reports returns a copy of everything recorded so far.
func (r *Recorder) Reports() []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Has returns true if a report of the given kind has an id ending in `id`, suffix matching
// lets assertions ignore ScopedAPI namespaces.
func (r *Recorder) Has(kind, id string) bool {
	for _, report := range r.Reports() {
		if report.Kind == kind && strings.HasSuffix(report.ID, id) {
			return true
		}
	}
	return false
}

func (r *Recorder) String() string {
	var out strings.Builder
	for _, report := range r.Reports() {
		out.WriteString(fmt.Sprintf("%s %s %v\n", report.Kind, report.ID, report.Params))
	}
	return out.String()
}
