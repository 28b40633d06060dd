package reconcile

import "github.com/mcpscout/mcpscout/internal/catalog"

// CompletenessScore ranks how much useful information a record carries.
// Higher scores win during reconciliation.
//
// Live-introspected capability data (tools, resources, prompts, a healthy
// status) is weighted far above static metadata so that a record enriched by
// probing always displaces a static-only duplicate. The container-hub bonus
// breaks ties in favor of the source most likely to hold an authoritative
// image reference.
func CompletenessScore(r catalog.ServerRecord) int {
	score := 0

	if r.Description != "" {
		score += 2
	}
	if r.URL != "" {
		score += 2
	}
	if r.ImageReference != "" {
		score += 3
	}
	score += len(r.Tags)
	if r.CreatedAt != nil {
		score++
	}
	if r.UpdatedAt != nil {
		score++
	}

	if len(r.Tools) > 0 {
		score += 5 + len(r.Tools)
	}
	if len(r.Resources) > 0 {
		score += 3 + len(r.Resources)
	}
	if len(r.Prompts) > 0 {
		score += 3 + len(r.Prompts)
	}

	if r.ProtocolVersion != "" {
		score += 2
	}
	if len(r.Labels) > 0 {
		score += 2
	}
	if r.Health.Status == catalog.HealthHealthy {
		score += 3
	}
	if r.LastIntrospected != nil {
		score += 2
	}

	if r.Source == catalog.SourceContainerHub && r.ImageReference != "" {
		score += 2
	}

	return score
}
