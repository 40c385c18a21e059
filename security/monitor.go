package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Incident severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident is one recorded security event. Records are immutable once
// logged; accessors return copies.
type Incident struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Query     string    `json:"query"`
	Action    string    `json:"action"`
}

// incidentMonitor accumulates incidents and flips the guard into emergency
// mode when too many occur within the configured window. Leaving emergency
// mode is an explicit administrative action.
type incidentMonitor struct {
	mu        sync.Mutex
	window    time.Duration
	threshold int
	maxKept   int
	incidents []Incident
	emergency bool
}

func newIncidentMonitor(window time.Duration, threshold, maxKept int) *incidentMonitor {
	return &incidentMonitor{
		window:    window,
		threshold: threshold,
		maxKept:   maxKept,
	}
}

// record logs an incident and reports whether it pushed the monitor into
// emergency mode. The returned incident carries the assigned ID.
func (m *incidentMonitor) record(incident Incident) (Incident, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	incident.ID = uuid.NewString()
	if incident.Timestamp.IsZero() {
		incident.Timestamp = time.Now().UTC()
	}
	m.incidents = append(m.incidents, incident)
	if len(m.incidents) > m.maxKept {
		m.incidents = m.incidents[len(m.incidents)-m.maxKept:]
	}

	entered := false
	if !m.emergency && m.countRecentLocked(incident.Timestamp) >= m.threshold {
		m.emergency = true
		entered = true
	}
	return incident, entered
}

func (m *incidentMonitor) countRecentLocked(now time.Time) int {
	cutoff := now.Add(-m.window)
	count := 0
	for i := len(m.incidents) - 1; i >= 0; i-- {
		if m.incidents[i].Timestamp.Before(cutoff) {
			break
		}
		count++
	}
	return count
}

// emergencyActive reports the current emergency-mode state.
func (m *incidentMonitor) emergencyActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emergency
}

// exitEmergency clears emergency mode. Reports whether it was active.
func (m *incidentMonitor) exitEmergency() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.emergency
	m.emergency = false
	return was
}

// snapshot returns a defensive copy of the retained incident records.
func (m *incidentMonitor) snapshot() []Incident {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Incident, len(m.incidents))
	copy(out, m.incidents)
	return out
}
