// Package synth assembles vector index constructs into a CloudFormation
// resource graph and renders the final template.
package synth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/stackmesh/aossindex/internal/domain"
	"github.com/stackmesh/aossindex/internal/domain/collection"
	"github.com/stackmesh/aossindex/internal/domain/graph"
	"github.com/stackmesh/aossindex/internal/domain/index"
	"github.com/stackmesh/aossindex/internal/domain/policy"
	"github.com/stackmesh/aossindex/internal/domain/resource"
	"github.com/stackmesh/aossindex/internal/domain/template"
)

// CloudFormation resource types emitted by the builder.
const (
	TypeOpenSearchIndex = "Custom::OpenSearchIndex"
	TypeAccessPolicy    = "AWS::OpenSearchServerless::AccessPolicy"
	TypeIAMRole         = "AWS::IAM::Role"
	TypeLambdaFunction  = "AWS::Lambda::Function"
)

// Config configures a Builder.
type Config struct {
	// Description becomes the template description.
	Description string
	// ServiceToken, when set, points at an existing provider Lambda and
	// suppresses in-stack provider resources. Principal must then carry the
	// ARN the access policies grant to.
	ServiceToken string
	Principal    string
	// Code locates the provider handler bundle for in-stack providers.
	Code ProviderCode
}

// Result reports the logical IDs a vector index construct produced.
type Result struct {
	IndexLogicalID  string
	PolicyLogicalID string
	PolicyName      string
}

// Builder accumulates resources for one stack and renders the template.
// Safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	cfg     Config
	g       *graph.Graph
	outputs map[string]template.Output
	prov    providerRefs
}

// NewBuilder validates the config and creates an empty Builder.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.ServiceToken != "" && cfg.Principal == "" {
		return nil, fmt.Errorf("principal is required when an external service token is set")
	}
	cfg.Code.applyDefaults()
	cfg.Description = sanitizeDescription(cfg.Description)
	return &Builder{
		cfg:     cfg,
		g:       graph.New(),
		outputs: make(map[string]template.Output),
	}, nil
}

// AddResource declares an arbitrary resource (e.g. the collection itself).
func (b *Builder) AddResource(r resource.Resource) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.g.Add(r)
}

// AddDependency declares that resource from depends on resource to.
func (b *Builder) AddDependency(from, to string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.g.AddEdge(from, to)
}

// AddVectorIndex registers the access policy and custom resource for one
// vector index, wiring dependency edges so the policy (and, for in-stack
// collections, the collection) exists before the index is created.
func (b *Builder) AddVectorIndex(id string, col collection.Ref, def index.Index) (Result, error) {
	if err := resource.ValidateLogicalID(id); err != nil {
		return Result{}, err
	}
	if col.IsZero() {
		return Result{}, fmt.Errorf("collection reference is required for %q", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if col.InStack() && !b.g.Has(col.LogicalID()) {
		return Result{}, fmt.Errorf("%w: collection %s", domain.ErrUnknownResource, col.LogicalID())
	}

	prov, err := b.ensureProvider()
	if err != nil {
		return Result{}, err
	}

	policyID := id + "AccessPolicy"
	policyRes, policyName, err := b.buildAccessPolicy(policyID, col, def, prov)
	if err != nil {
		return Result{}, err
	}

	indexRes, err := resource.New(id, TypeOpenSearchIndex, b.indexProperties(col, def, prov))
	if err != nil {
		return Result{}, err
	}

	if err := b.g.Add(policyRes); err != nil {
		return Result{}, err
	}
	if err := b.g.Add(indexRes); err != nil {
		return Result{}, err
	}

	edges := [][2]string{{id, policyID}}
	if prov.inStack() {
		edges = append(edges, [2]string{id, prov.functionID})
	}
	if col.InStack() {
		edges = append(edges,
			[2]string{policyID, col.LogicalID()},
			[2]string{id, col.LogicalID()},
		)
	}
	for _, e := range edges {
		if err := b.g.AddEdge(e[0], e[1]); err != nil {
			return Result{}, err
		}
	}

	b.outputs[id+"IndexName"] = template.Output{
		Description: "Name of the provisioned vector index",
		Value:       def.Name(),
	}

	return Result{IndexLogicalID: id, PolicyLogicalID: policyID, PolicyName: policyName}, nil
}

// Build renders the accumulated graph into a template.
func (b *Builder) Build() (template.Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.g.Len() == 0 {
		return template.Template{}, fmt.Errorf("stack has no resources")
	}
	tpl, err := template.Build(b.cfg.Description, b.g, b.outputs)
	if err != nil {
		return template.Template{}, fmt.Errorf("build template: %w", err)
	}
	return tpl, nil
}

// principalPlaceholder substitutes the provider role ARN inside the policy
// document when the role is declared in the same stack.
const principalPlaceholder = "${ProviderRoleArn}"

func (b *Builder) buildAccessPolicy(
	policyID string, col collection.Ref, def index.Index, prov providerRefs,
) (resource.Resource, string, error) {
	rule, err := policy.NewRule(
		policy.ResourceIndex,
		[]string{fmt.Sprintf("index/%s/%s", col.Name(), def.Name())},
		policy.IndexPermissions(),
	)
	if err != nil {
		return resource.Resource{}, "", fmt.Errorf("build policy rule: %w", err)
	}

	principal := prov.principal
	if prov.inStack() {
		principal = principalPlaceholder
	}

	name := policy.DeriveName(col.Name(), def.Name())
	pol, err := policy.New(
		name,
		fmt.Sprintf("Provider access to index %s in collection %s", def.Name(), col.Name()),
		[]policy.Rule{rule},
		[]string{principal},
	)
	if err != nil {
		return resource.Resource{}, "", fmt.Errorf("build policy: %w", err)
	}

	doc, err := pol.Document()
	if err != nil {
		return resource.Resource{}, "", err
	}

	var policyProp any = doc
	if prov.inStack() {
		policyProp = resource.Sub(doc, map[string]any{
			"ProviderRoleArn": resource.GetAtt(prov.roleID, "Arn"),
		})
	}

	res, err := resource.New(policyID, TypeAccessPolicy, map[string]any{
		"Name":        pol.Name(),
		"Type":        "data",
		"Description": pol.Description(),
		"Policy":      policyProp,
	})
	if err != nil {
		return resource.Resource{}, "", err
	}
	return res, name, nil
}

func (b *Builder) indexProperties(col collection.Ref, def index.Index, prov providerRefs) map[string]any {
	var endpoint any = col.Endpoint()
	if col.InStack() {
		endpoint = resource.GetAtt(col.LogicalID(), "CollectionEndpoint")
	}

	props := map[string]any{
		"ServiceToken":     prov.serviceToken,
		"Endpoint":         endpoint,
		"IndexName":        def.Name(),
		"VectorField":      def.VectorField(),
		"Dimensions":       def.Dimensions(),
		"Engine":           string(def.Engine()),
		"SpaceType":        string(def.SpaceType()),
		"Method":           string(def.Method()),
		"Parameters":       map[string]any{"m": def.Params().M, "ef_construction": def.Params().EFConstruction},
		"EfSearch":         def.EFSearch(),
		"NumberOfShards":   def.Shards(),
		"NumberOfReplicas": def.Replicas(),
	}

	if fields := def.Fields(); len(fields) > 0 {
		mm := make([]any, len(fields))
		for i, f := range fields {
			mm[i] = map[string]any{
				"MappingField": f.Name(),
				"DataType":     string(f.DataType()),
				"Filterable":   f.Filterable(),
			}
		}
		props["MetadataManagement"] = mm
	}

	if a := def.Analyzer(); !a.IsZero() {
		an := map[string]any{"Tokenizer": string(a.Tokenizer())}
		if cf := a.CharFilters(); len(cf) > 0 {
			vals := make([]any, len(cf))
			for i, f := range cf {
				vals[i] = string(f)
			}
			an["CharacterFilters"] = vals
		}
		if tf := a.TokenFilters(); len(tf) > 0 {
			vals := make([]any, len(tf))
			for i, f := range tf {
				vals[i] = string(f)
			}
			an["TokenFilters"] = vals
		}
		props["Analyzer"] = an
	}

	if s := def.Settings(); len(s) > 0 {
		props["Settings"] = s
	}

	return props
}

// sanitizeDescription trims control characters CloudFormation rejects.
func sanitizeDescription(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, s)
}
