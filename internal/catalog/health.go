package catalog

import "time"

const (
	// HealthUnknown means the server has never been introspected.
	HealthUnknown HealthStatus = "unknown"

	// HealthIntrospecting means an introspection attempt is in flight.
	HealthIntrospecting HealthStatus = "introspecting"

	// HealthHealthy means at least one transport produced a capability listing.
	HealthHealthy HealthStatus = "healthy"

	// HealthUnhealthy means transports were attempted but none succeeded,
	// or introspection failed unexpectedly.
	HealthUnhealthy HealthStatus = "unhealthy"

	// HealthUnreachable means no transport was eligible to attempt at all.
	HealthUnreachable HealthStatus = "unreachable"
)

// HealthStatus represents the introspection state of a server record.
type HealthStatus string

// HealthState captures the outcome of the most recent introspection attempt.
type HealthState struct {
	Status           HealthStatus `json:"status"`
	LastChecked      *time.Time   `json:"lastChecked,omitempty"`
	ResponseTimeMS   *float64     `json:"responseTimeMs,omitempty"`
	ErrorMessage     string       `json:"errorMessage,omitempty"`
	UptimePercentage *float64     `json:"uptimePercentage,omitempty"`
}

// NewHealthState returns the initial health state for a freshly parsed record.
func NewHealthState() HealthState {
	return HealthState{Status: HealthUnknown}
}

// Clone returns a deep copy of the health state.
func (h HealthState) Clone() HealthState {
	c := h
	if h.LastChecked != nil {
		t := *h.LastChecked
		c.LastChecked = &t
	}
	if h.ResponseTimeMS != nil {
		v := *h.ResponseTimeMS
		c.ResponseTimeMS = &v
	}
	if h.UptimePercentage != nil {
		v := *h.UptimePercentage
		c.UptimePercentage = &v
	}
	return c
}
