package aossindex

import (
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain/index"
	"github.com/stackmesh/aossindex/internal/domain/index/analyzer"
	"github.com/stackmesh/aossindex/internal/domain/index/field"
	"github.com/stackmesh/aossindex/internal/usecase/synth"
)

// VectorIndex is the handle returned for a registered vector index construct.
type VectorIndex struct {
	indexName string
	result    synth.Result
}

// NewVectorIndex registers a vector index in the stack: the data access
// policy, the Custom::OpenSearchIndex custom resource, and the dependency
// edges between them, the shared provider, and the collection. The first
// index in a stack also materializes the provider role and function; later
// indexes reuse them.
func NewVectorIndex(stack *Stack, id string, props Props, opts ...IndexOption) (*VectorIndex, error) {
	if stack == nil {
		return nil, fmt.Errorf("aossindex: stack is required")
	}

	def, err := indexFromProps(props, opts)
	if err != nil {
		return nil, fmt.Errorf("aossindex: index %q: %w", id, err)
	}

	res, err := stack.b.AddVectorIndex(id, props.Collection.ref, def)
	if err != nil {
		return nil, fmt.Errorf("aossindex: index %q: %w", id, err)
	}

	return &VectorIndex{indexName: def.Name(), result: res}, nil
}

// IndexName returns the OpenSearch index name.
func (v *VectorIndex) IndexName() string { return v.indexName }

// LogicalID returns the custom resource's logical ID.
func (v *VectorIndex) LogicalID() string { return v.result.IndexLogicalID }

// PolicyLogicalID returns the access policy resource's logical ID.
func (v *VectorIndex) PolicyLogicalID() string { return v.result.PolicyLogicalID }

// PolicyName returns the derived access policy name.
func (v *VectorIndex) PolicyName() string { return v.result.PolicyName }

func indexFromProps(props Props, opts []IndexOption) (index.Index, error) {
	cfg := &indexConfig{}
	for _, o := range opts {
		o(cfg)
	}

	domOpts := cfg.opts

	if len(props.Mappings) > 0 {
		fields := make([]field.Field, len(props.Mappings))
		for i, m := range props.Mappings {
			f, err := field.New(m.Name, field.DataType(m.DataType), m.Filterable)
			if err != nil {
				return index.Index{}, fmt.Errorf("mapping %d: %w", i, err)
			}
			fields[i] = f
		}
		domOpts = append(domOpts, index.WithFields(fields))
	}

	if props.Analyzer != nil {
		a, err := analyzerFromProps(*props.Analyzer)
		if err != nil {
			return index.Index{}, err
		}
		domOpts = append(domOpts, index.WithAnalyzer(a))
	}

	return index.New(props.IndexName, props.VectorField, props.Dimensions, domOpts...)
}

func analyzerFromProps(a Analyzer) (analyzer.Analyzer, error) {
	cf := make([]analyzer.CharFilter, len(a.CharFilters))
	for i, f := range a.CharFilters {
		cf[i] = analyzer.CharFilter(f)
	}
	tf := make([]analyzer.TokenFilter, len(a.TokenFilters))
	for i, f := range a.TokenFilters {
		tf[i] = analyzer.TokenFilter(f)
	}

	out, err := analyzer.New(cf, analyzer.Tokenizer(a.Tokenizer), tf)
	if err != nil {
		return analyzer.Analyzer{}, fmt.Errorf("analyzer: %w", err)
	}
	return out, nil
}
