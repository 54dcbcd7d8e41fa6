package resource

import (
	"fmt"
	"regexp"
)

// CloudFormation logical IDs: alphanumeric, max 255 chars.
var logicalIDRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,255}$`)

// ValidateLogicalID checks a CloudFormation logical ID for syntactic validity.
func ValidateLogicalID(id string) error {
	if !logicalIDRegex.MatchString(id) {
		return fmt.Errorf("logical id %q must be alphanumeric (1-255 chars)", id)
	}
	return nil
}

// Resource is one CloudFormation resource declaration (immutable value object).
// Dependency edges live in the stack graph, not here.
type Resource struct {
	logicalID    string
	resourceType string
	properties   map[string]any
}

// New validates and creates a Resource.
func New(logicalID, resourceType string, properties map[string]any) (Resource, error) {
	if err := ValidateLogicalID(logicalID); err != nil {
		return Resource{}, err
	}
	if resourceType == "" {
		return Resource{}, fmt.Errorf("resource type is required for %q", logicalID)
	}
	return Resource{
		logicalID:    logicalID,
		resourceType: resourceType,
		properties:   properties,
	}, nil
}

// LogicalID returns the resource's logical ID.
func (r Resource) LogicalID() string { return r.logicalID }

// Type returns the CloudFormation resource type.
func (r Resource) Type() string { return r.resourceType }

// Properties returns the resource properties map.
func (r Resource) Properties() map[string]any { return r.properties }

// Ref builds a {"Ref": id} intrinsic.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt builds a {"Fn::GetAtt": [id, attr]} intrinsic.
func GetAtt(logicalID, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attribute}}
}

// Sub builds a {"Fn::Sub": [template, vars]} intrinsic.
func Sub(template string, vars map[string]any) map[string]any {
	return map[string]any{"Fn::Sub": []any{template, vars}}
}
