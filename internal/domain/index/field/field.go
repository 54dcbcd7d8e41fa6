package field

import "fmt"

// DataType is the OpenSearch mapping type of a metadata field.
type DataType string

// Metadata field data types supported by the index handler.
const (
	Text    DataType = "text"
	Keyword DataType = "keyword"
	Long    DataType = "long"
	Double  DataType = "double"
	Boolean DataType = "boolean"
	Date    DataType = "date"
)

// IsValid checks if the data type is supported.
func (t DataType) IsValid() bool {
	switch t {
	case Text, Keyword, Long, Double, Boolean, Date:
		return true
	}
	return false
}

// Field is an immutable value object describing one metadata management field.
type Field struct {
	name       string
	dataType   DataType
	filterable bool
}

// New validates and creates a Field.
// Name must be non-empty, max 255 chars, and must not start with an underscore.
func New(name string, dt DataType, filterable bool) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 255 {
		return Field{}, fmt.Errorf("field name %q too long (max 255)", name)
	}
	if name[0] == '_' {
		return Field{}, fmt.Errorf("field name %q must not start with underscore", name)
	}
	if !dt.IsValid() {
		return Field{}, fmt.Errorf("invalid data type %q for field %q", dt, name)
	}
	return Field{name: name, dataType: dt, filterable: filterable}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, dt DataType, filterable bool) Field {
	return Field{name: name, dataType: dt, filterable: filterable}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// DataType returns the field's OpenSearch mapping type.
func (f Field) DataType() DataType { return f.dataType }

// Filterable reports whether the field participates in metadata filtering.
func (f Field) Filterable() bool { return f.filterable }
