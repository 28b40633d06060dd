package catalog

import (
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for a JSON schema object attached to a tool.
type JSONSchema struct {
	// Type defines the type for this schema, e.g. "object".
	Type string `json:"type"`

	// Properties represents a property name and associated object definition.
	Properties map[string]any `json:"properties,omitempty"`

	// Required lists the (keys of) Properties that are required.
	Required []string `json:"required,omitempty"`
}

// ToolDescriptor describes one invocable capability exposed by a server.
type ToolDescriptor struct {
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	InputSchema   JSONSchema  `json:"inputSchema"`
	OutputSchema  *JSONSchema `json:"outputSchema,omitempty"`
	Category      string      `json:"category,omitempty"`
	IsDestructive bool        `json:"isDestructive,omitempty"`
	RequiresAuth  bool        `json:"requiresAuth,omitempty"`
}

// ValidateSchema checks that the tool's input schema is itself a valid JSON
// Schema document. Servers occasionally publish malformed schemas; callers
// flag those tools rather than dropping them.
func (t *ToolDescriptor) ValidateSchema() error {
	schema := map[string]any{
		"type": t.InputSchema.Type,
	}
	if t.InputSchema.Properties != nil {
		schema["properties"] = t.InputSchema.Properties
	}
	if len(t.InputSchema.Required) > 0 {
		schema["required"] = t.InputSchema.Required
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
		return fmt.Errorf("invalid input schema for tool '%s': %w", t.Name, err)
	}
	return nil
}

// ResourceDescriptor describes one addressable data item exposed by a server.
type ResourceDescriptor struct {
	URI          string     `json:"uri"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	MIMEType     string     `json:"mimeType,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// PromptArgument describes a single argument accepted by a prompt template.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptDescriptor describes one reusable prompt template exposed by a server.
type PromptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}
