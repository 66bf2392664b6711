package piano

import (
	"math"
	"time"
)

type (
	// Alerts is the list of short-lived notifications shown at the bottom of
	// the window. Named alerts replace an earlier alert with the same name
	// instead of stacking.
	Alerts struct {
		alerts []Alert
	}

	Alert struct {
		Name      string
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64
	}

	AlertPriority int

	// Notification is a blocking message: the GUI shows it as a modal dialog
	// until the user dismisses it.
	Notification struct {
		Title   string
		Message string
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const (
	defaultAlertDuration = 3 * time.Second
	alertFadeTime        = 150 * time.Millisecond
)

func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddAlert(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				a.FadeLevel = m.alerts[i].FadeLevel
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// Update advances the alert timers by d and removes expired alerts. It
// returns true if alerts are still animating and the GUI should redraw.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	fade := float64(d) / float64(alertFadeTime)
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := &m.alerts[i]
		if a.Duration > 0 {
			a.Duration -= d
			a.FadeLevel = math.Min(a.FadeLevel+fade, 1)
			animating = true
			continue
		}
		a.FadeLevel -= fade
		if a.FadeLevel <= 0 {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			continue
		}
		animating = true
	}
	return animating
}

func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			return
		}
	}
}

func (m *Alerts) Len() int { return len(m.alerts) }
