package index

import (
	"fmt"
	"regexp"

	"github.com/stackmesh/aossindex/internal/domain/index/analyzer"
	"github.com/stackmesh/aossindex/internal/domain/index/field"
)

// OpenSearch index names: lowercase, must not start with _ or -, no spaces.
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Engine selects the k-NN library used by the index.
type Engine string

// Supported k-NN engines.
const (
	EngineFAISS  Engine = "faiss"
	EngineNMSLIB Engine = "nmslib"
	EngineLucene Engine = "lucene"
)

// IsValid checks if the engine is supported.
func (e Engine) IsValid() bool {
	return e == EngineFAISS || e == EngineNMSLIB || e == EngineLucene
}

// SpaceType selects the distance metric for vector similarity.
type SpaceType string

// Supported space types.
const (
	SpaceL2           SpaceType = "l2"
	SpaceInnerProduct SpaceType = "innerproduct"
	SpaceCosine       SpaceType = "cosinesimil"
	SpaceLinf         SpaceType = "linf"
	SpaceL1           SpaceType = "l1"
)

// IsValid checks if the space type is supported.
func (s SpaceType) IsValid() bool {
	switch s {
	case SpaceL2, SpaceInnerProduct, SpaceCosine, SpaceLinf, SpaceL1:
		return true
	}
	return false
}

// Method selects the approximate nearest neighbor algorithm.
type Method string

// Supported k-NN methods.
const (
	MethodHNSW Method = "hnsw"
	MethodIVF  Method = "ivf"
)

// IsValid checks if the method is supported.
func (m Method) IsValid() bool { return m == MethodHNSW || m == MethodIVF }

// MethodParams holds algorithm tuning parameters for the k-NN method.
type MethodParams struct {
	M              int
	EFConstruction int
}

// Defaults substituted for absent optional knobs.
const (
	DefaultEngine         = EngineFAISS
	DefaultSpaceType      = SpaceL2
	DefaultMethod         = MethodHNSW
	DefaultM              = 16
	DefaultEFConstruction = 512
	DefaultEFSearch       = 512
	DefaultShards         = 2
	DefaultReplicas       = 0
)

// Index is the vector index definition aggregate (immutable value object).
type Index struct {
	name        string
	vectorField string
	dimensions  int
	engine      Engine
	spaceType   SpaceType
	method      Method
	params      MethodParams
	efSearch    int
	shards      int
	replicas    int
	fields      []field.Field
	analyzer    analyzer.Analyzer
	settings    map[string]any
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > 255 {
		return fmt.Errorf("index name too long (max 255)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("index name must be lowercase alphanumeric with ._- and must not start with _ or -")
	}
	return nil
}

func validateFields(vectorField string, fields []field.Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name() == vectorField {
			return fmt.Errorf("metadata field %q collides with the vector field", f.Name())
		}
		if seen[f.Name()] {
			return fmt.Errorf("duplicate metadata field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates an Index, substituting defaults for zero-valued
// optional knobs. Dimensions must be positive; range validation beyond that
// is left to the index handler.
func New(name, vectorField string, dimensions int, opts ...Option) (Index, error) {
	if err := validateName(name); err != nil {
		return Index{}, err
	}
	if vectorField == "" {
		return Index{}, fmt.Errorf("vector field is required")
	}
	if dimensions <= 0 {
		return Index{}, fmt.Errorf("vector dimensions must be positive")
	}

	idx := Index{
		name:        name,
		vectorField: vectorField,
		dimensions:  dimensions,
		engine:      DefaultEngine,
		spaceType:   DefaultSpaceType,
		method:      DefaultMethod,
		params:      MethodParams{M: DefaultM, EFConstruction: DefaultEFConstruction},
		efSearch:    DefaultEFSearch,
		shards:      DefaultShards,
		replicas:    DefaultReplicas,
	}
	for _, o := range opts {
		o(&idx)
	}

	if !idx.engine.IsValid() {
		return Index{}, fmt.Errorf("invalid engine %q", idx.engine)
	}
	if !idx.spaceType.IsValid() {
		return Index{}, fmt.Errorf("invalid space type %q", idx.spaceType)
	}
	if !idx.method.IsValid() {
		return Index{}, fmt.Errorf("invalid method %q", idx.method)
	}
	if idx.method == MethodIVF && idx.engine != EngineFAISS {
		return Index{}, fmt.Errorf("method ivf requires engine faiss, got %q", idx.engine)
	}
	if idx.efSearch <= 0 {
		return Index{}, fmt.Errorf("ef_search must be positive")
	}
	if idx.shards <= 0 {
		return Index{}, fmt.Errorf("shard count must be positive")
	}
	if idx.replicas < 0 {
		return Index{}, fmt.Errorf("replica count must not be negative")
	}
	if err := validateFields(vectorField, idx.fields); err != nil {
		return Index{}, err
	}

	return idx, nil
}

// Option mutates an Index during construction.
type Option func(*Index)

// WithEngine overrides the k-NN engine.
func WithEngine(e Engine) Option { return func(i *Index) { i.engine = e } }

// WithSpaceType overrides the distance metric.
func WithSpaceType(s SpaceType) Option { return func(i *Index) { i.spaceType = s } }

// WithMethod overrides the ANN method.
func WithMethod(m Method) Option { return func(i *Index) { i.method = m } }

// WithMethodParams overrides m / ef_construction. Zero values keep defaults.
func WithMethodParams(m, efConstruction int) Option {
	return func(i *Index) {
		if m > 0 {
			i.params.M = m
		}
		if efConstruction > 0 {
			i.params.EFConstruction = efConstruction
		}
	}
}

// WithEFSearch overrides the ef_search query-time parameter.
func WithEFSearch(ef int) Option { return func(i *Index) { i.efSearch = ef } }

// WithShards overrides the primary shard count.
func WithShards(n int) Option { return func(i *Index) { i.shards = n } }

// WithReplicas overrides the replica count.
func WithReplicas(n int) Option { return func(i *Index) { i.replicas = n } }

// WithFields sets the metadata management fields.
func WithFields(fields []field.Field) Option {
	return func(i *Index) { i.fields = append([]field.Field(nil), fields...) }
}

// WithAnalyzer sets the custom text analyzer.
func WithAnalyzer(a analyzer.Analyzer) Option { return func(i *Index) { i.analyzer = a } }

// WithSettings sets custom index settings passed through to the handler verbatim.
func WithSettings(settings map[string]any) Option {
	return func(i *Index) { i.settings = settings }
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// VectorField returns the vector field name.
func (i Index) VectorField() string { return i.vectorField }

// Dimensions returns the vector dimensionality.
func (i Index) Dimensions() int { return i.dimensions }

// Engine returns the k-NN engine.
func (i Index) Engine() Engine { return i.engine }

// SpaceType returns the distance metric.
func (i Index) SpaceType() SpaceType { return i.spaceType }

// Method returns the ANN method.
func (i Index) Method() Method { return i.method }

// Params returns the method tuning parameters.
func (i Index) Params() MethodParams { return i.params }

// EFSearch returns the ef_search query-time parameter.
func (i Index) EFSearch() int { return i.efSearch }

// Shards returns the primary shard count.
func (i Index) Shards() int { return i.shards }

// Replicas returns the replica count.
func (i Index) Replicas() int { return i.replicas }

// Fields returns the metadata management fields.
func (i Index) Fields() []field.Field { return i.fields }

// Analyzer returns the custom analyzer (zero value if none).
func (i Index) Analyzer() analyzer.Analyzer { return i.analyzer }

// Settings returns the custom settings map (nil if none).
func (i Index) Settings() map[string]any { return i.settings }
