package stats

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// TimerSnapshot adds the derived average to an Aggregate.
type TimerSnapshot struct {
	Aggregate `yaml:",inline"`
	Average   int64 `json:"average" yaml:"average"`
}

// CacheReport adds the derived hit ratio to a CacheSnapshot.
type CacheReport struct {
	CacheSnapshot `yaml:",inline"`
	HitRatio      float64 `json:"hit_ratio" yaml:"hit_ratio"`
}

// Snapshot is a point-in-time copy of every handler in a Registry, grouped by
// kind. Empty groups are omitted on export.
type Snapshot struct {
	Counters      map[string]int64            `json:"counters,omitempty" yaml:"counters,omitempty"`
	KeyedCounters map[string]map[string]int64 `json:"keyed_counters,omitempty" yaml:"keyed_counters,omitempty"`
	Timers        map[string]TimerSnapshot    `json:"timers,omitempty" yaml:"timers,omitempty"`
	Sizes         map[string]TimerSnapshot    `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Caches        map[string]CacheReport      `json:"caches,omitempty" yaml:"caches,omitempty"`
}

// snapshotVisitor fills a Snapshot.
type snapshotVisitor struct {
	s *Snapshot
}

func (v snapshotVisitor) OnCounter(name string, h *Counter) {
	if v.s.Counters == nil {
		v.s.Counters = make(map[string]int64)
	}
	v.s.Counters[name] = h.Value()
}

func (v snapshotVisitor) OnKeyedCounter(name string, h *KeyedCounter) {
	if v.s.KeyedCounters == nil {
		v.s.KeyedCounters = make(map[string]map[string]int64)
	}
	v.s.KeyedCounters[name] = h.Snapshot()
}

func (v snapshotVisitor) OnTimer(name string, h *Timer) {
	if v.s.Timers == nil {
		v.s.Timers = make(map[string]TimerSnapshot)
	}
	a := h.Snapshot()
	v.s.Timers[name] = TimerSnapshot{Aggregate: a, Average: a.Average()}
}

func (v snapshotVisitor) OnSize(name string, h *Size) {
	if v.s.Sizes == nil {
		v.s.Sizes = make(map[string]TimerSnapshot)
	}
	a := h.Snapshot()
	v.s.Sizes[name] = TimerSnapshot{Aggregate: a, Average: a.Average()}
}

func (v snapshotVisitor) OnCache(name string, h *CacheHandler) {
	if v.s.Caches == nil {
		v.s.Caches = make(map[string]CacheReport)
	}
	s := h.Snapshot()
	v.s.Caches[name] = CacheReport{CacheSnapshot: s, HitRatio: s.HitRatio()}
}

// Snapshot copies the current value of every handler.
func (r *Registry) Snapshot() Snapshot {
	var s Snapshot
	r.Visit(snapshotVisitor{s: &s})
	return s
}

// ExportYAML writes a Snapshot of the registry to w.
func (r *Registry) ExportYAML(w io.Writer) error {
	return encodeYAML(w, r.Snapshot())
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Join(ErrEncodeFailed, err)
	}
	if err := enc.Close(); err != nil {
		return errors.Join(ErrEncodeFailed, err)
	}
	return nil
}

// lookup returns the exported form of a single handler.
func (r *Registry) lookup(kind Kind, name string) (any, error) {
	s := r.Snapshot()
	var (
		v  any
		ok bool
	)
	switch kind {
	case KindCounter:
		v, ok = s.Counters[name]
	case KindKeyedCounter:
		v, ok = s.KeyedCounters[name]
	case KindTimer:
		v, ok = s.Timers[name]
	case KindSize:
		v, ok = s.Sizes[name]
	case KindCache:
		v, ok = s.Caches[name]
	default:
		return nil, ErrUnknownKind
	}
	if !ok {
		return nil, ErrUnknownHandler
	}
	return v, nil
}
