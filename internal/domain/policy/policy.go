package policy

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// Access policy names: 3-32 chars, lowercase, must start with a letter.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{2,31}$`)

const maxNameLen = 32

// ResourceType scopes a rule to index-level or collection-level resources.
type ResourceType string

// Rule resource types.
const (
	ResourceIndex      ResourceType = "index"
	ResourceCollection ResourceType = "collection"
)

// IsValid checks if the resource type is supported.
func (t ResourceType) IsValid() bool {
	return t == ResourceIndex || t == ResourceCollection
}

// Data-plane permissions grantable on OpenSearch Serverless resources.
const (
	PermCreateIndex   = "aoss:CreateIndex"
	PermDescribeIndex = "aoss:DescribeIndex"
	PermUpdateIndex   = "aoss:UpdateIndex"
	PermDeleteIndex   = "aoss:DeleteIndex"
	PermReadDocument  = "aoss:ReadDocument"
	PermWriteDocument = "aoss:WriteDocument"
)

// IndexPermissions is the full permission set the index provider needs on a
// single index: lifecycle management plus document read/write.
func IndexPermissions() []string {
	return []string{
		PermCreateIndex, PermDescribeIndex, PermUpdateIndex, PermDeleteIndex,
		PermReadDocument, PermWriteDocument,
	}
}

// Rule grants permissions on resource patterns of one resource type.
type Rule struct {
	resourceType ResourceType
	resources    []string
	permissions  []string
}

// NewRule validates and creates a Rule.
func NewRule(rt ResourceType, resources, permissions []string) (Rule, error) {
	if !rt.IsValid() {
		return Rule{}, fmt.Errorf("invalid resource type %q", rt)
	}
	if len(resources) == 0 {
		return Rule{}, fmt.Errorf("rule requires at least one resource pattern")
	}
	if len(permissions) == 0 {
		return Rule{}, fmt.Errorf("rule requires at least one permission")
	}
	prefix := string(rt) + "/"
	for _, r := range resources {
		if !strings.HasPrefix(r, prefix) {
			return Rule{}, fmt.Errorf("resource %q must start with %q", r, prefix)
		}
	}
	return Rule{
		resourceType: rt,
		resources:    append([]string(nil), resources...),
		permissions:  append([]string(nil), permissions...),
	}, nil
}

// ResourceType returns the rule's resource type.
func (r Rule) ResourceType() ResourceType { return r.resourceType }

// Resources returns the resource patterns.
func (r Rule) Resources() []string { return r.resources }

// Permissions returns the granted permissions.
func (r Rule) Permissions() []string { return r.permissions }

// Policy is a data access policy document (immutable value object).
type Policy struct {
	name        string
	description string
	rules       []Rule
	principals  []string
}

// New validates and creates a Policy.
func New(name, description string, rules []Rule, principals []string) (Policy, error) {
	if !nameRegex.MatchString(name) {
		return Policy{}, fmt.Errorf("policy name %q must match %s", name, nameRegex.String())
	}
	if len(rules) == 0 {
		return Policy{}, fmt.Errorf("policy requires at least one rule")
	}
	if len(principals) == 0 {
		return Policy{}, fmt.Errorf("policy requires at least one principal")
	}
	return Policy{
		name:        name,
		description: description,
		rules:       append([]Rule(nil), rules...),
		principals:  append([]string(nil), principals...),
	}, nil
}

// Name returns the policy name.
func (p Policy) Name() string { return p.name }

// Description returns the policy description.
func (p Policy) Description() string { return p.description }

// Rules returns the policy rules.
func (p Policy) Rules() []Rule { return p.rules }

// Principals returns the principal ARNs (or substitution placeholders).
func (p Policy) Principals() []string { return p.principals }

type ruleDoc struct {
	ResourceType ResourceType `json:"ResourceType"`
	Resource     []string     `json:"Resource"`
	Permission   []string     `json:"Permission"`
}

type entryDoc struct {
	Description string    `json:"Description,omitempty"`
	Rules       []ruleDoc `json:"Rules"`
	Principal   []string  `json:"Principal"`
}

// Document renders the policy body as the JSON array the
// AWS::OpenSearchServerless::AccessPolicy resource expects.
func (p Policy) Document() (string, error) {
	rules := make([]ruleDoc, len(p.rules))
	for i, r := range p.rules {
		rules[i] = ruleDoc{
			ResourceType: r.resourceType,
			Resource:     r.resources,
			Permission:   r.permissions,
		}
	}
	doc := []entryDoc{{
		Description: p.description,
		Rules:       rules,
		Principal:   p.principals,
	}}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal policy document: %w", err)
	}
	return string(b), nil
}

// DeriveName builds a valid policy name from a prefix and an index name:
// lowercased, invalid runes replaced with hyphens, truncated to 32 chars
// with an fnv hash suffix when the combined name overflows.
func DeriveName(prefix, indexName string) string {
	name := sanitize(prefix + "-" + indexName)
	if len(name) <= maxNameLen {
		return name
	}

	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("-%08x", h.Sum32())
	return name[:maxNameLen-len(suffix)] + suffix
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_', r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" || out[0] < 'a' || out[0] > 'z' {
		out = "p" + out
	}
	for len(out) < 3 {
		out += "0"
	}
	return out
}
