package flow

import (
	"expvar"
	"fmt"
	"sync"
)

const buffersLabel = "dvbtx.buffers"

const (
	// ItemCounter measures lifetime items through a buffer.
	ItemCounter = "Items"
	// PeakCounter measures peak occupancy of a buffer.
	PeakCounter = "Peak"
)

// meters caches expvar counters per buffer name, since expvar refuses to
// publish the same key twice across runs.
var meters = struct {
	sync.Mutex
	m map[string]*meter
}{m: make(map[string]*meter)}

type meter struct {
	items *expvar.Int
	peak  *expvar.Int
}

// Get returns published counter values for a buffer name.
func Get(name string) map[string]string {
	m := make(map[string]string)
	for _, counter := range []string{ItemCounter, PeakCounter} {
		if v := expvar.Get(key(name, counter)); v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// measure refreshes the counters of every buffer in the graph.
func (s *Scheduler) measure() {
	for _, b := range s.buffers {
		m := meterFor(b.label())
		m.items.Set(b.count())
		m.peak.Set(int64(b.peakOcc()))
	}
}

func meterFor(name string) *meter {
	meters.Lock()
	defer meters.Unlock()
	if m, ok := meters.m[name]; ok {
		return m
	}
	m := &meter{
		items: expvar.NewInt(key(name, ItemCounter)),
		peak:  expvar.NewInt(key(name, PeakCounter)),
	}
	meters.m[name] = m
	return m
}

func key(name, counter string) string {
	return fmt.Sprintf("%s.%s.%s", buffersLabel, name, counter)
}
