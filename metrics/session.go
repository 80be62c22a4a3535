package metrics

import "github.com/prometheus/client_golang/prometheus"

// Session counts token refreshes and terminal session transitions.
type Session struct {
	Refreshes *prometheus.CounterVec
	SignOuts  *prometheus.CounterVec
	Resets    *prometheus.CounterVec
}

// NewSession registers the session collectors into reg. A nil reg yields
// unregistered collectors.
func NewSession(reg prometheus.Registerer) *Session {
	return &Session{
		Refreshes: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "refresh_total",
			Help:      "Token refresh attempts by result.",
		}, []string{"result"})),
		SignOuts: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "signout_total",
			Help:      "Transitions to signed out by reason.",
		}, []string{"reason"})),
		Resets: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "reset_total",
			Help:      "Full state resets by reason.",
		}, []string{"reason"})),
	}
}
