// Package template renders a resource graph into a CloudFormation template
// document with deterministic JSON output.
package template

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain/graph"
)

const formatVersion = "2010-09-09"

// Output is a CloudFormation template output.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value"`
}

type entry struct {
	logicalID string
	body      resourceBody
}

type resourceBody struct {
	Type       string         `json:"Type"`
	Properties map[string]any `json:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty"`
}

// Template is a synthesized CloudFormation template (immutable value object).
// Resources are held in creation order.
type Template struct {
	description string
	entries     []entry
	outputs     map[string]Output
}

// Build orders the graph topologically and assembles a Template.
// DependsOn lists come from the graph edges, sorted for stable output.
func Build(description string, g *graph.Graph, outputs map[string]Output) (Template, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return Template{}, fmt.Errorf("order resources: %w", err)
	}

	entries := make([]entry, 0, len(order))
	for _, id := range order {
		r, _ := g.Node(id)
		entries = append(entries, entry{
			logicalID: id,
			body: resourceBody{
				Type:       r.Type(),
				Properties: r.Properties(),
				DependsOn:  g.DependsOn(id),
			},
		})
	}

	return Template{description: description, entries: entries, outputs: outputs}, nil
}

// Description returns the template description.
func (t Template) Description() string { return t.description }

// ResourceCount returns the number of declared resources.
func (t Template) ResourceCount() int { return len(t.entries) }

// LogicalIDs returns logical IDs in creation order.
func (t Template) LogicalIDs() []string {
	ids := make([]string, len(t.entries))
	for i, e := range t.entries {
		ids[i] = e.logicalID
	}
	return ids
}

// MarshalJSON renders the template document. Resources are written in
// creation order; nested maps rely on encoding/json key sorting, so the
// same template always serializes to the same bytes.
func (t Template) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"AWSTemplateFormatVersion":`)
	writeJSON(&buf, formatVersion)

	if t.description != "" {
		buf.WriteString(`,"Description":`)
		writeJSON(&buf, t.description)
	}

	buf.WriteString(`,"Resources":{`)
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(&buf, e.logicalID)
		buf.WriteByte(':')
		b, err := json.Marshal(e.body)
		if err != nil {
			return nil, fmt.Errorf("marshal resource %s: %w", e.logicalID, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')

	if len(t.outputs) > 0 {
		buf.WriteString(`,"Outputs":`)
		b, err := json.Marshal(t.outputs)
		if err != nil {
			return nil, fmt.Errorf("marshal outputs: %w", err)
		}
		buf.Write(b)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Checksum returns the hex sha256 of the serialized template.
func (t Template) Checksum() (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("serialize template: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func writeJSON(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
