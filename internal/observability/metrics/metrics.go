// Package metrics names the counters and timings estates-web emits.
package metrics

import (
	"maps"
	"sync"
	"time"

	obserrors "github.com/dietiestates/estates-web/internal/observability/errors"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess    = "success"
	ResultError      = "error"
	ResultSuperseded = "superseded"
	ResultDiscarded  = "discarded"
)

func resultOf(err error) (string, map[string]string) {
	if err == nil {
		return ResultSuccess, map[string]string{"result": ResultSuccess}
	}
	return ResultError, map[string]string{"result": ResultError, "error_class": obserrors.Classify(err)}
}

// Login counts an authentication attempt; method is "password", "federated" or "recover".
func Login(sink statsd.Sink, method string, err error) {
	if sink == nil {
		return
	}
	_, tags := resultOf(err)
	tags["method"] = method
	sink.Count("session.login", 1, tags)
}

// Logout counts a logout.
func Logout(sink statsd.Sink) {
	if sink == nil {
		return
	}
	sink.Count("session.logout", 1, nil)
}

// SearchFetch records one property page fetch.
func SearchFetch(sink statsd.Sink, d time.Duration, err error) {
	if sink == nil {
		return
	}
	_, tags := resultOf(err)
	sink.Count("search.fetch", 1, tags)
	if d > 0 {
		sink.Timing("search.fetch.duration", d, maps.Clone(tags))
	}
}

// SearchSuperseded counts a response dropped because a newer request was issued.
func SearchSuperseded(sink statsd.Sink) {
	if sink == nil {
		return
	}
	sink.Count("search.fetch", 1, map[string]string{"result": ResultSuperseded})
}

// BoardLoad records a dashboard board load; discarded loads finished after the session changed.
func BoardLoad(sink statsd.Sink, board string, discarded bool, err error) {
	if sink == nil {
		return
	}
	_, tags := resultOf(err)
	if discarded {
		tags["result"] = ResultDiscarded
	}
	tags["board"] = board
	sink.Count("board.load", 1, tags)
}

// BoardRollback counts an optimistic update undone after the backend refused it.
func BoardRollback(sink statsd.Sink, board, action string) {
	if sink == nil {
		return
	}
	sink.Count("board.rollback", 1, map[string]string{"board": board, "action": action})
}

// Recorder is an in-memory Sink for tests.
type Recorder struct {
	mu      sync.Mutex
	counts  map[string]int64
	timings map[string]int
	tags    map[string][]map[string]string
}

var _ statsd.Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counts:  map[string]int64{},
		timings: map[string]int{},
		tags:    map[string][]map[string]string{},
	}
}

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += value
	r.tags[name] = append(r.tags[name], maps.Clone(tags))
}

func (r *Recorder) Timing(name string, _ time.Duration, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name]++
}

// Counted returns the total recorded for name.
func (r *Recorder) Counted(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// CountedWith returns how many emissions of name carried tag key=value.
func (r *Recorder) CountedWith(name, key, value string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tags[name] {
		if t[key] == value {
			n++
		}
	}
	return n
}

// Timed returns how many timings were recorded for name.
func (r *Recorder) Timed(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timings[name]
}
