package aossindex

import (
	"encoding/json"
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain/collection"
	"github.com/stackmesh/aossindex/internal/domain/resource"
	"github.com/stackmesh/aossindex/internal/usecase/synth"
)

// Stack is the construct scope: it accumulates resources and renders the
// final CloudFormation template. Safe for concurrent use.
type Stack struct {
	name string
	b    *synth.Builder
}

// NewStack creates an empty stack.
func NewStack(name string, opts ...StackOption) (*Stack, error) {
	if name == "" {
		return nil, fmt.Errorf("aossindex: stack name is required")
	}

	cfg := &stackConfig{}
	for _, o := range opts {
		o(cfg)
	}

	b, err := synth.NewBuilder(synth.Config{
		Description:  cfg.description,
		ServiceToken: cfg.serviceToken,
		Principal:    cfg.principal,
		Code: synth.ProviderCode{
			S3Bucket: cfg.codeS3Bucket,
			S3Key:    cfg.codeS3Key,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("aossindex: %w", err)
	}

	return &Stack{name: name, b: b}, nil
}

// Name returns the stack name.
func (s *Stack) Name() string { return s.name }

// AddCollection declares a VECTORSEARCH collection resource in the stack and
// returns a Collection reference indexes can target. The custom resource
// then resolves the endpoint at deploy time and depends on the collection.
func (s *Stack) AddCollection(logicalID, name string) (Collection, error) {
	ref, err := collection.NewInStack(name, logicalID)
	if err != nil {
		return Collection{}, fmt.Errorf("aossindex: %w", err)
	}

	res, err := resource.New(logicalID, "AWS::OpenSearchServerless::Collection", map[string]any{
		"Name": name,
		"Type": "VECTORSEARCH",
	})
	if err != nil {
		return Collection{}, fmt.Errorf("aossindex: %w", err)
	}
	if err := s.b.AddResource(res); err != nil {
		return Collection{}, fmt.Errorf("aossindex: add collection: %w", err)
	}

	return Collection{ref: ref}, nil
}

// Synth renders the accumulated constructs into a template.
func (s *Stack) Synth() (Template, error) {
	tpl, err := s.b.Build()
	if err != nil {
		return Template{}, fmt.Errorf("aossindex: synth %q: %w", s.name, err)
	}

	body, err := json.Marshal(tpl)
	if err != nil {
		return Template{}, fmt.Errorf("aossindex: serialize %q: %w", s.name, err)
	}
	checksum, err := tpl.Checksum()
	if err != nil {
		return Template{}, fmt.Errorf("aossindex: checksum %q: %w", s.name, err)
	}

	return Template{
		body:       body,
		checksum:   checksum,
		count:      tpl.ResourceCount(),
		logicalIDs: tpl.LogicalIDs(),
	}, nil
}

// Template is a synthesized CloudFormation template.
type Template struct {
	body       []byte
	checksum   string
	count      int
	logicalIDs []string
}

// JSON returns the serialized template document.
func (t Template) JSON() []byte { return t.body }

// Checksum returns the hex sha256 of the serialized template.
func (t Template) Checksum() string { return t.checksum }

// ResourceCount returns the number of declared resources.
func (t Template) ResourceCount() int { return t.count }

// LogicalIDs returns logical IDs in creation order.
func (t Template) LogicalIDs() []string { return t.logicalIDs }
