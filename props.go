package aossindex

import (
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain/collection"
	"github.com/stackmesh/aossindex/internal/domain/index"
	"github.com/stackmesh/aossindex/internal/domain/index/analyzer"
	"github.com/stackmesh/aossindex/internal/domain/index/field"
)

// Collection points at the OpenSearch Serverless collection an index lives in.
type Collection struct {
	ref collection.Ref
}

// ExternalCollection references an already-provisioned collection by name
// and data-plane endpoint.
func ExternalCollection(name, endpoint string) (Collection, error) {
	ref, err := collection.NewExternal(name, endpoint)
	if err != nil {
		return Collection{}, fmt.Errorf("aossindex: %w", err)
	}
	return Collection{ref: ref}, nil
}

// Name returns the collection name.
func (c Collection) Name() string { return c.ref.Name() }

// Props describes the desired vector index. Optional knobs (engine, space
// type, method parameters, sharding, ef_search, custom settings) are set via
// IndexOption values on NewVectorIndex.
type Props struct {
	// Collection the index is created in.
	Collection Collection
	// IndexName is the OpenSearch index name (lowercase).
	IndexName string
	// VectorField is the name of the knn_vector field.
	VectorField string
	// Dimensions is the vector dimensionality. Required; semantic range
	// checks are left to the index handler.
	Dimensions int
	// Mappings are the metadata management fields.
	Mappings []MetadataField
	// Analyzer optionally configures a custom text analyzer.
	Analyzer *Analyzer
}

// DataType is the OpenSearch mapping type of a metadata field.
type DataType string

// Metadata field data types.
const (
	DataTypeText    = DataType(field.Text)
	DataTypeKeyword = DataType(field.Keyword)
	DataTypeLong    = DataType(field.Long)
	DataTypeDouble  = DataType(field.Double)
	DataTypeBoolean = DataType(field.Boolean)
	DataTypeDate    = DataType(field.Date)
)

// MetadataField describes one metadata management field.
type MetadataField struct {
	Name       string
	DataType   DataType
	Filterable bool
}

// CharFilter is a character filter applied before tokenization.
type CharFilter string

// Character filters.
const (
	CharFilterICUNormalizer = CharFilter(analyzer.ICUNormalizer)
)

// Tokenizer splits text into tokens.
type Tokenizer string

// Tokenizers.
const (
	TokenizerKuromoji = Tokenizer(analyzer.KuromojiTokenizer)
	TokenizerICU      = Tokenizer(analyzer.ICUTokenizer)
)

// TokenFilter is a filter applied to tokens after tokenization.
type TokenFilter string

// Token filters.
const (
	TokenFilterKuromojiBaseForm     = TokenFilter(analyzer.KuromojiBaseForm)
	TokenFilterKuromojiPartOfSpeech = TokenFilter(analyzer.KuromojiPartOfSpeech)
	TokenFilterKuromojiStemmer      = TokenFilter(analyzer.KuromojiStemmer)
	TokenFilterCJKWidth             = TokenFilter(analyzer.CJKWidth)
	TokenFilterJaStop               = TokenFilter(analyzer.JaStop)
	TokenFilterLowercase            = TokenFilter(analyzer.Lowercase)
	TokenFilterICUFolding           = TokenFilter(analyzer.ICUFolding)
)

// Analyzer configures a custom text analyzer: ordered character filters,
// a single tokenizer, and ordered token filters.
type Analyzer struct {
	CharFilters  []CharFilter
	Tokenizer    Tokenizer
	TokenFilters []TokenFilter
}

// Engine selects the k-NN library used by the index.
type Engine string

// Supported engines.
const (
	EngineFAISS  = Engine(index.EngineFAISS)
	EngineNMSLIB = Engine(index.EngineNMSLIB)
	EngineLucene = Engine(index.EngineLucene)
)

// SpaceType selects the distance metric for vector similarity.
type SpaceType string

// Supported space types.
const (
	SpaceL2           = SpaceType(index.SpaceL2)
	SpaceInnerProduct = SpaceType(index.SpaceInnerProduct)
	SpaceCosine       = SpaceType(index.SpaceCosine)
	SpaceLinf         = SpaceType(index.SpaceLinf)
	SpaceL1           = SpaceType(index.SpaceL1)
)

// Method selects the approximate nearest neighbor algorithm.
type Method string

// Supported methods.
const (
	MethodHNSW = Method(index.MethodHNSW)
	MethodIVF  = Method(index.MethodIVF)
)
