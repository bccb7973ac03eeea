package constprop

import (
	"fmt"
	"time"

	"github.com/cs-au-dk/cprop/analysis/cfg"
)

// Metrics records how much work a run of the analysis performed.
type Metrics struct {
	passes  int
	visits  map[cfg.MethodKey]int
	changes map[cfg.MethodKey]int
	time    time.Duration
	timer   time.Time
}

func newMetrics() *Metrics {
	return &Metrics{
		visits:  make(map[cfg.MethodKey]int),
		changes: make(map[cfg.MethodKey]int),
	}
}

// Enabled checks whether the Metrics object is available.
func (m *Metrics) Enabled() bool {
	return m != nil
}

func (m *Metrics) timerStart() {
	if m.Enabled() {
		m.timer = time.Now()
	}
}

func (m *Metrics) timerStop() {
	if m.Enabled() {
		m.time = time.Since(m.timer)
	}
}

func (m *Metrics) pass() {
	if m.Enabled() {
		m.passes++
	}
}

func (m *Metrics) visit(b *cfg.Block, changed bool) {
	if !m.Enabled() {
		return
	}
	m.visits[b.Method]++
	if changed {
		m.changes[b.Method]++
	}
}

// Passes is the number of full passes until the fixed point was reached.
func (m *Metrics) Passes() int {
	return m.passes
}

// Visits is the number of block visits performed for method k.
func (m *Metrics) Visits(k cfg.MethodKey) int {
	return m.visits[k]
}

// Changes is the number of visits of blocks of k that changed their OUT state.
func (m *Metrics) Changes(k cfg.MethodKey) int {
	return m.changes[k]
}

// Performance renders the running time of the analysis.
func (m *Metrics) Performance() string {
	return fmt.Sprintf("%d ms", m.time.Milliseconds())
}

// Duration is the running time of the analysis.
func (m *Metrics) Duration() time.Duration {
	return m.time
}
