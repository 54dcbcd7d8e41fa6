package collection

import (
	"fmt"
	"regexp"
)

// Serverless collection names: 3-32 chars, lowercase, must start with a letter.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{2,31}$`)

// Ref points at the OpenSearch Serverless collection an index lives in.
// A Ref is either external (endpoint known at synthesis time) or in-stack
// (the collection is itself a resource in the same template, referenced by
// its logical ID).
type Ref struct {
	name      string
	endpoint  string
	logicalID string
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must match %s", nameRegex.String())
	}
	return nil
}

// NewExternal creates a Ref to an already-provisioned collection.
func NewExternal(name, endpoint string) (Ref, error) {
	if err := validateName(name); err != nil {
		return Ref{}, err
	}
	if endpoint == "" {
		return Ref{}, fmt.Errorf("collection endpoint is required for external collection %q", name)
	}
	return Ref{name: name, endpoint: endpoint}, nil
}

// NewInStack creates a Ref to a collection declared in the same stack.
// The endpoint is resolved at deploy time via Fn::GetAtt on the logical ID.
func NewInStack(name, logicalID string) (Ref, error) {
	if err := validateName(name); err != nil {
		return Ref{}, err
	}
	if logicalID == "" {
		return Ref{}, fmt.Errorf("collection logical id is required for in-stack collection %q", name)
	}
	return Ref{name: name, logicalID: logicalID}, nil
}

// Name returns the collection name.
func (r Ref) Name() string { return r.name }

// Endpoint returns the collection endpoint (empty for in-stack refs).
func (r Ref) Endpoint() string { return r.endpoint }

// LogicalID returns the in-stack logical ID (empty for external refs).
func (r Ref) LogicalID() string { return r.logicalID }

// InStack reports whether the collection is declared in the same stack.
func (r Ref) InStack() bool { return r.logicalID != "" }

// IsZero reports whether the Ref is unset.
func (r Ref) IsZero() bool { return r.name == "" }
