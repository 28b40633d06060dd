// Package catalog defines the canonical server record shared by every part of
// the application: source fetchers produce records, the reconciler merges
// them, the prober enriches them, and the store persists them.
package catalog

import (
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	// SourceRegistry identifies records fetched from the community MCP registry.
	SourceRegistry Source = "registry"

	// SourceContainerHub identifies records fetched from a container image hub namespace.
	SourceContainerHub Source = "container_hub"

	// SourceCodeHost identifies records discovered through a code-hosting search API.
	SourceCodeHost Source = "code_host"

	// SourceCodeHostRegistry identifies records parsed from a registry repository on a code host.
	SourceCodeHostRegistry Source = "code_host_registry"
)

// Source identifies which upstream system a record was fetched from.
type Source string

// CapabilityFlags records which MCP capability classes a server declares or
// has been observed to expose.
type CapabilityFlags struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
	Prompts   bool `json:"prompts"`
	Logging   bool `json:"logging"`
}

// ServerRecord is the canonical, flattened view of a discovered MCP server.
//
// IDs are unique within a single fetch batch from one source but not across
// sources; cross-source identity is resolved by reconciliation.
type ServerRecord struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	URL            string     `json:"url,omitempty"`
	ImageReference string     `json:"imageReference,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`

	Source    Source `json:"source"`
	Namespace string `json:"namespace,omitempty"`

	ProtocolVersion     string            `json:"protocolVersion,omitempty"`
	SupportedTransports []Transport       `json:"supportedTransports,omitempty"`
	Capabilities        CapabilityFlags   `json:"capabilities"`
	AuthMethods         []string          `json:"authMethods,omitempty"`
	RuntimeRequirements map[string]string `json:"runtimeRequirements,omitempty"`

	Tools     []ToolDescriptor     `json:"tools,omitempty"`
	Resources []ResourceDescriptor `json:"resources,omitempty"`
	Prompts   []PromptDescriptor   `json:"prompts,omitempty"`

	Health              HealthState `json:"health"`
	LastIntrospected    *time.Time  `json:"lastIntrospected,omitempty"`
	IntrospectionErrors []string    `json:"introspectionErrors,omitempty"`

	PopularityScore *float64          `json:"popularityScore,omitempty"`
	TrustScore      *float64          `json:"trustScore,omitempty"`
	PullCount       int64             `json:"pullCount,omitempty"`
	StarCount       int64             `json:"starCount,omitempty"`
	Labels          map[string]string `json:"labels,omitempty"`
}

// NameKey returns the case-folded name used for cross-source identity.
func (r *ServerRecord) NameKey() string {
	return strings.ToLower(strings.TrimSpace(r.Name))
}

// HasTransport reports whether the record advertises the given transport.
func (r *ServerRecord) HasTransport(t Transport) bool {
	return slices.Contains(r.SupportedTransports, t)
}

// Clone returns a deep copy of the record.
// Reconciliation and introspection treat their inputs as immutable, so any
// component that needs to mutate a record works on a clone.
func (r ServerRecord) Clone() ServerRecord {
	c := r
	c.Tags = slices.Clone(r.Tags)
	c.Categories = slices.Clone(r.Categories)
	c.SupportedTransports = slices.Clone(r.SupportedTransports)
	c.AuthMethods = slices.Clone(r.AuthMethods)
	c.RuntimeRequirements = maps.Clone(r.RuntimeRequirements)
	c.Tools = slices.Clone(r.Tools)
	c.Resources = slices.Clone(r.Resources)
	c.Prompts = slices.Clone(r.Prompts)
	c.IntrospectionErrors = slices.Clone(r.IntrospectionErrors)
	c.Labels = maps.Clone(r.Labels)
	if r.CreatedAt != nil {
		t := *r.CreatedAt
		c.CreatedAt = &t
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	if r.LastIntrospected != nil {
		t := *r.LastIntrospected
		c.LastIntrospected = &t
	}
	if r.PopularityScore != nil {
		v := *r.PopularityScore
		c.PopularityScore = &v
	}
	if r.TrustScore != nil {
		v := *r.TrustScore
		c.TrustScore = &v
	}
	c.Health = r.Health.Clone()
	return c
}

// RefreshCapabilityFlags recomputes the capability flags from the discovered
// capability collections. Logging is declared, never observed, so it is left
// untouched.
func (r *ServerRecord) RefreshCapabilityFlags() {
	r.Capabilities.Tools = len(r.Tools) > 0
	r.Capabilities.Resources = len(r.Resources) > 0
	r.Capabilities.Prompts = len(r.Prompts) > 0
}
