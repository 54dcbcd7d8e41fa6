package stack

import (
	"fmt"
	"strconv"

	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
)

// recordToHash converts a domain Record to a map for HSET.
// The template body is stored separately under its own key.
func recordToHash(rec domstack.Record) map[string]string {
	return map[string]string{
		"name":           rec.Name(),
		"description":    rec.Description(),
		"checksum":       rec.Checksum(),
		"resource_count": strconv.Itoa(rec.ResourceCount()),
		"created_at":     strconv.FormatInt(rec.CreatedAt(), 10),
		"revision":       strconv.Itoa(rec.Revision()),
	}
}

// recordFromHash hydrates a domain Record from an HGETALL result map.
func recordFromHash(m map[string]string, body []byte) (domstack.Record, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domstack.Record{}, fmt.Errorf("invalid created_at: %w", err)
	}
	revision, err := strconv.Atoi(m["revision"])
	if err != nil {
		return domstack.Record{}, fmt.Errorf("invalid revision: %w", err)
	}
	resourceCount, err := strconv.Atoi(m["resource_count"])
	if err != nil {
		return domstack.Record{}, fmt.Errorf("invalid resource_count: %w", err)
	}

	return domstack.Reconstruct(
		m["name"], m["description"], body, m["checksum"],
		resourceCount, createdAt, revision,
	), nil
}
