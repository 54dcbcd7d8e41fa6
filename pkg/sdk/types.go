package sdk

import (
	"encoding/json"
	"time"
)

// Collection references the target OpenSearch Serverless collection.
type Collection struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// MethodParams carries k-NN method tuning parameters.
type MethodParams struct {
	M              int `json:"m,omitempty"`
	EFConstruction int `json:"ef_construction,omitempty"`
}

// Mapping describes one metadata management field.
type Mapping struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	Filterable bool   `json:"filterable"`
}

// Analyzer describes a custom text analyzer.
type Analyzer struct {
	CharFilters  []string `json:"char_filters,omitempty"`
	Tokenizer    string   `json:"tokenizer"`
	TokenFilters []string `json:"token_filters,omitempty"`
}

// Index describes one vector index to synthesize.
type Index struct {
	Name         string         `json:"name"`
	LogicalID    string         `json:"logical_id,omitempty"`
	VectorField  string         `json:"vector_field"`
	Dimensions   int            `json:"dimensions"`
	Engine       string         `json:"engine,omitempty"`
	SpaceType    string         `json:"space_type,omitempty"`
	Method       string         `json:"method,omitempty"`
	MethodParams *MethodParams  `json:"method_params,omitempty"`
	EFSearch     *int           `json:"ef_search,omitempty"`
	Shards       *int           `json:"shards,omitempty"`
	Replicas     *int           `json:"replicas,omitempty"`
	Mappings     []Mapping      `json:"mappings,omitempty"`
	Analyzer     *Analyzer      `json:"analyzer,omitempty"`
	Settings     map[string]any `json:"settings,omitempty"`
}

// SynthRequest describes a stack to synthesize.
type SynthRequest struct {
	Description string     `json:"description,omitempty"`
	Collection  Collection `json:"collection"`
	Indexes     []Index    `json:"indexes"`
}

// SynthResult carries a synthesized template.
type SynthResult struct {
	Template      json.RawMessage `json:"template"`
	Checksum      string          `json:"checksum"`
	ResourceCount int             `json:"resource_count"`
}

// Stack describes a persisted stack.
type Stack struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Checksum      string    `json:"checksum"`
	ResourceCount int       `json:"resource_count"`
	CreatedAt     time.Time `json:"created_at"`
	Revision      int       `json:"revision"`
}

// StackList is one page of stacks.
type StackList struct {
	Items      []Stack `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Template is a stored template body with its integrity metadata.
type Template struct {
	Body     json.RawMessage
	Checksum string
	Revision int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
