// Package introspect actively connects to discovered MCP servers and queries
// their live capability lists over a set of transports, plus a scheduler that
// fans introspection out over many records with bounded concurrency.
package introspect

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const (
	// defaultStartupTimeout bounds container startup plus handshake so a
	// single hung server cannot stall a whole batch.
	defaultStartupTimeout = 30 * time.Second

	// defaultCallTimeout bounds each individual protocol call.
	defaultCallTimeout = 15 * time.Second
)

// transport is one connection mechanism the prober can attempt.
// Attempts are independent: a failure is reported, never propagated.
type transport interface {
	// name identifies the transport in diagnostics, e.g. "docker_stdio".
	name() string

	// eligible reports whether this record carries enough information for
	// the transport to be attempted at all.
	eligible(record catalog.ServerRecord) bool

	// introspect runs a full session and returns the discovered listing.
	introspect(ctx context.Context, record catalog.ServerRecord) (listing, error)
}

// Prober introspects one server record at a time.
// NewProber should be used to create instances of Prober.
type Prober struct {
	logger hclog.Logger

	// transports in fixed preference order; the first that yields a result
	// supplies the record's capabilities.
	transports []transport

	now func() time.Time
}

// Option configures a Prober.
type Option func(*proberOptions)

type proberOptions struct {
	startupTimeout time.Duration
	callTimeout    time.Duration
	dockerHost     string
}

// WithStartupTimeout overrides the per-transport connection/startup timeout.
func WithStartupTimeout(d time.Duration) Option {
	return func(o *proberOptions) {
		if d > 0 {
			o.startupTimeout = d
		}
	}
}

// WithCallTimeout overrides the per-protocol-call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *proberOptions) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// NewProber creates a Prober with the standard transport preference order:
// container-exec stdio, then HTTP, then WebSocket.
func NewProber(logger hclog.Logger, opt ...Option) *Prober {
	opts := proberOptions{
		startupTimeout: defaultStartupTimeout,
		callTimeout:    defaultCallTimeout,
	}
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}

	l := logger.Named("prober")

	return &Prober{
		logger: l,
		transports: []transport{
			newDockerTransport(l, opts.startupTimeout, opts.callTimeout),
			newHTTPTransport(l, opts.startupTimeout),
			newWebSocketTransport(l, opts.startupTimeout, opts.callTimeout),
		},
		now: time.Now,
	}
}

// Introspect probes the server described by record and returns the enriched
// record. The returned record is authoritative; the input is never mutated.
//
// Every returned record carries a terminal health status: healthy when any
// transport produced a capability listing, unhealthy when transports were
// attempted and all failed, unreachable when no transport was eligible.
// Introspect never returns an error and never panics.
func (p *Prober) Introspect(ctx context.Context, record catalog.ServerRecord) (out catalog.ServerRecord) {
	rec := record.Clone()

	started := p.now().UTC()
	rec.Health.Status = catalog.HealthIntrospecting
	rec.Health.LastChecked = &started

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Unexpected error during introspection", "server", rec.Name, "error", r)
			rec.Health.Status = catalog.HealthUnhealthy
			rec.Health.ErrorMessage = fmt.Sprint(r)
			out = rec
		}
	}()

	p.logger.Info("Starting introspection", "server", rec.Name, "id", rec.ID)

	// Attempt every eligible transport independently, then pick the winner
	// by preference order, not completion order.
	results := make(map[string]listing, len(p.transports))
	attempted := false

	for _, t := range p.transports {
		if !t.eligible(rec) {
			continue
		}
		attempted = true

		result, err := t.introspect(ctx, rec)
		if err != nil {
			p.logger.Warn("Transport introspection failed",
				"server", rec.Name,
				"transport", t.name(),
				"error", err,
			)
			rec.IntrospectionErrors = append(rec.IntrospectionErrors, fmt.Sprintf("%s: %s", t.name(), err))
			continue
		}

		p.logger.Info("Transport introspection succeeded",
			"server", rec.Name,
			"transport", t.name(),
			"tools", len(result.tools),
			"resources", len(result.resources),
			"prompts", len(result.prompts),
		)
		results[t.name()] = result
	}

	var chosen *listing
	for _, t := range p.transports {
		if result, ok := results[t.name()]; ok {
			chosen = &result
			break
		}
	}

	switch {
	case chosen != nil:
		rec.Tools = chosen.tools
		rec.Resources = chosen.resources
		rec.Prompts = chosen.prompts
		rec.Health.Status = catalog.HealthHealthy
		rec.Health.ErrorMessage = ""

		completed := p.now().UTC()
		rec.LastIntrospected = &completed
		elapsed := float64(completed.Sub(started).Milliseconds())
		rec.Health.ResponseTimeMS = &elapsed

		rec.RefreshCapabilityFlags()
		p.flagInvalidSchemas(&rec)

	case attempted:
		rec.Health.Status = catalog.HealthUnhealthy
		rec.Health.ErrorMessage = "No successful introspection methods"

	default:
		rec.Health.Status = catalog.HealthUnreachable
		rec.Health.ErrorMessage = "All introspection methods failed"
	}

	return rec
}

// flagInvalidSchemas logs tools whose published input schema is not a valid
// JSON Schema document. The tools are kept; downstream consumers decide.
func (p *Prober) flagInvalidSchemas(rec *catalog.ServerRecord) {
	for i := range rec.Tools {
		if err := rec.Tools[i].ValidateSchema(); err != nil {
			p.logger.Warn("Discovered tool has invalid input schema",
				"server", rec.Name,
				"tool", rec.Tools[i].Name,
				"error", err,
			)
		}
	}
}
