package httpapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/stackmesh/aossindex/internal/domain/collection"
	"github.com/stackmesh/aossindex/internal/domain/index"
	"github.com/stackmesh/aossindex/internal/domain/index/analyzer"
	"github.com/stackmesh/aossindex/internal/domain/index/field"
	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
)

// CollectionDTO references the target collection.
type CollectionDTO struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

// MethodParamsDTO carries k-NN method tuning parameters.
type MethodParamsDTO struct {
	M              int `json:"m,omitempty"`
	EFConstruction int `json:"ef_construction,omitempty"`
}

// MappingDTO describes one metadata management field.
type MappingDTO struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	Filterable bool   `json:"filterable"`
}

// AnalyzerDTO describes a custom text analyzer.
type AnalyzerDTO struct {
	CharFilters  []string `json:"char_filters,omitempty"`
	Tokenizer    string   `json:"tokenizer"`
	TokenFilters []string `json:"token_filters,omitempty"`
}

// IndexDTO describes one vector index to synthesize.
type IndexDTO struct {
	Name         string           `json:"name"`
	LogicalID    string           `json:"logical_id,omitempty"`
	VectorField  string           `json:"vector_field"`
	Dimensions   int              `json:"dimensions"`
	Engine       string           `json:"engine,omitempty"`
	SpaceType    string           `json:"space_type,omitempty"`
	Method       string           `json:"method,omitempty"`
	MethodParams *MethodParamsDTO `json:"method_params,omitempty"`
	EFSearch     *int             `json:"ef_search,omitempty"`
	Shards       *int             `json:"shards,omitempty"`
	Replicas     *int             `json:"replicas,omitempty"`
	Mappings     []MappingDTO     `json:"mappings,omitempty"`
	Analyzer     *AnalyzerDTO     `json:"analyzer,omitempty"`
	Settings     map[string]any   `json:"settings,omitempty"`
}

// SynthRequest is the body of POST /synth.
type SynthRequest struct {
	Description string        `json:"description,omitempty"`
	Collection  CollectionDTO `json:"collection"`
	Indexes     []IndexDTO    `json:"indexes"`
}

// SynthResponse carries a synthesized template.
type SynthResponse struct {
	Template      json.RawMessage `json:"template"`
	Checksum      string          `json:"checksum"`
	ResourceCount int             `json:"resource_count"`
}

// CreateStackRequest is the body of POST /stacks.
type CreateStackRequest struct {
	Name string `json:"name"`
	SynthRequest
}

// ReplaceStackRequest is the body of PUT /stacks/{stack}.
type ReplaceStackRequest struct {
	SynthRequest
}

// StackSummary describes a persisted stack without its template body.
type StackSummary struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Checksum      string    `json:"checksum"`
	ResourceCount int       `json:"resource_count"`
	CreatedAt     time.Time `json:"created_at"`
	Revision      int       `json:"revision"`
}

// StackListResponse is a cursor-paginated list of stacks.
type StackListResponse struct {
	Items      []StackSummary `json:"items"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// ErrorResponse is the API error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func stackToSummary(rec domstack.Record) StackSummary {
	return StackSummary{
		Name:          rec.Name(),
		Description:   rec.Description(),
		Checksum:      rec.Checksum(),
		ResourceCount: rec.ResourceCount(),
		CreatedAt:     time.UnixMilli(rec.CreatedAt()).UTC(),
		Revision:      rec.Revision(),
	}
}

func collectionFromDTO(dto CollectionDTO) (collection.Ref, error) {
	ref, err := collection.NewExternal(dto.Name, dto.Endpoint)
	if err != nil {
		return collection.Ref{}, fmt.Errorf("collection: %w", err)
	}
	return ref, nil
}

func indexFromDTO(dto IndexDTO) (index.Index, error) {
	var opts []index.Option
	if dto.Engine != "" {
		opts = append(opts, index.WithEngine(index.Engine(dto.Engine)))
	}
	if dto.SpaceType != "" {
		opts = append(opts, index.WithSpaceType(index.SpaceType(dto.SpaceType)))
	}
	if dto.Method != "" {
		opts = append(opts, index.WithMethod(index.Method(dto.Method)))
	}
	if dto.MethodParams != nil {
		opts = append(opts, index.WithMethodParams(dto.MethodParams.M, dto.MethodParams.EFConstruction))
	}
	if dto.EFSearch != nil {
		opts = append(opts, index.WithEFSearch(*dto.EFSearch))
	}
	if dto.Shards != nil {
		opts = append(opts, index.WithShards(*dto.Shards))
	}
	if dto.Replicas != nil {
		opts = append(opts, index.WithReplicas(*dto.Replicas))
	}

	if len(dto.Mappings) > 0 {
		fields := make([]field.Field, len(dto.Mappings))
		for i, m := range dto.Mappings {
			f, err := field.New(m.Name, field.DataType(m.DataType), m.Filterable)
			if err != nil {
				return index.Index{}, fmt.Errorf("mapping %d: %w", i, err)
			}
			fields[i] = f
		}
		opts = append(opts, index.WithFields(fields))
	}

	if dto.Analyzer != nil {
		a, err := analyzerFromDTO(*dto.Analyzer)
		if err != nil {
			return index.Index{}, err
		}
		opts = append(opts, index.WithAnalyzer(a))
	}

	if len(dto.Settings) > 0 {
		opts = append(opts, index.WithSettings(dto.Settings))
	}

	return index.New(dto.Name, dto.VectorField, dto.Dimensions, opts...)
}

func analyzerFromDTO(dto AnalyzerDTO) (analyzer.Analyzer, error) {
	cf := make([]analyzer.CharFilter, len(dto.CharFilters))
	for i, f := range dto.CharFilters {
		cf[i] = analyzer.CharFilter(f)
	}
	tf := make([]analyzer.TokenFilter, len(dto.TokenFilters))
	for i, f := range dto.TokenFilters {
		tf[i] = analyzer.TokenFilter(f)
	}

	a, err := analyzer.New(cf, analyzer.Tokenizer(dto.Tokenizer), tf)
	if err != nil {
		return analyzer.Analyzer{}, fmt.Errorf("analyzer: %w", err)
	}
	return a, nil
}

// deriveLogicalID turns an index name into a CloudFormation logical ID:
// "articles-v1" -> "ArticlesV1Index".
func deriveLogicalID(indexName string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range indexName {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
	}
	return b.String() + "Index"
}
