package stack

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Record is a persisted synthesized stack (immutable value object).
// The template body is stored verbatim; checksum and resource count are
// captured at synthesis time.
type Record struct {
	name          string
	description   string
	body          []byte
	checksum      string
	resourceCount int
	createdAt     int64
	revision      int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("stack name is required")
	}
	if len(name) > 128 {
		return fmt.Errorf("stack name too long (max 128)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("stack name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Record with revision 1.
func New(name, description string, body []byte, checksum string, resourceCount int) (Record, error) {
	if err := validateName(name); err != nil {
		return Record{}, err
	}
	if len(body) == 0 {
		return Record{}, fmt.Errorf("stack template body is required")
	}
	if checksum == "" {
		return Record{}, fmt.Errorf("stack checksum is required")
	}
	if resourceCount <= 0 {
		return Record{}, fmt.Errorf("stack must declare at least one resource")
	}
	return Record{
		name:          name,
		description:   description,
		body:          body,
		checksum:      checksum,
		resourceCount: resourceCount,
		createdAt:     time.Now().UnixMilli(),
		revision:      1,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	name, description string, body []byte, checksum string,
	resourceCount int, createdAt int64, revision int,
) Record {
	return Record{
		name:          name,
		description:   description,
		body:          body,
		checksum:      checksum,
		resourceCount: resourceCount,
		createdAt:     createdAt,
		revision:      revision,
	}
}

// WithTemplate returns a copy carrying a new template body and bumped revision.
func (r Record) WithTemplate(body []byte, checksum string, resourceCount int) Record {
	r.body = body
	r.checksum = checksum
	r.resourceCount = resourceCount
	r.revision++
	return r
}

// Name returns the stack name.
func (r Record) Name() string { return r.name }

// Description returns the stack description.
func (r Record) Description() string { return r.description }

// Body returns the serialized template.
func (r Record) Body() []byte { return r.body }

// Checksum returns the template checksum.
func (r Record) Checksum() string { return r.checksum }

// ResourceCount returns the number of resources in the template.
func (r Record) ResourceCount() int { return r.resourceCount }

// CreatedAt returns the creation time in unix milliseconds.
func (r Record) CreatedAt() int64 { return r.createdAt }

// Revision returns the optimistic-locking revision.
func (r Record) Revision() int { return r.revision }
