package collection

import (
	"strings"
	"testing"
)

func TestNewExternal_Valid(t *testing.T) {
	ref, err := NewExternal("articles", "https://abc.us-east-1.aoss.amazonaws.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Name() != "articles" {
		t.Errorf("Name() = %q, want %q", ref.Name(), "articles")
	}
	if ref.Endpoint() != "https://abc.us-east-1.aoss.amazonaws.com" {
		t.Errorf("Endpoint() = %q", ref.Endpoint())
	}
	if ref.InStack() {
		t.Error("InStack() = true for external ref")
	}
	if ref.IsZero() {
		t.Error("IsZero() = true for valid ref")
	}
}

func TestNewExternal_MissingEndpoint(t *testing.T) {
	_, err := NewExternal("articles", "")
	if err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestNewInStack_Valid(t *testing.T) {
	ref, err := NewInStack("articles", "ArticlesCollection")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.InStack() {
		t.Error("InStack() = false for in-stack ref")
	}
	if ref.LogicalID() != "ArticlesCollection" {
		t.Errorf("LogicalID() = %q, want %q", ref.LogicalID(), "ArticlesCollection")
	}
	if ref.Endpoint() != "" {
		t.Errorf("Endpoint() = %q, want empty", ref.Endpoint())
	}
}

func TestNewInStack_MissingLogicalID(t *testing.T) {
	_, err := NewInStack("articles", "")
	if err == nil {
		t.Fatal("expected error for missing logical id")
	}
}

func TestValidateName_Invalid(t *testing.T) {
	names := []string{"", "ab", "1start", "-start", "Upper", "has space",
		"under_score", strings.Repeat("a", 33)}
	for _, name := range names {
		if _, err := NewExternal(name, "https://x.example.com"); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestValidateName_Valid(t *testing.T) {
	names := []string{"abc", "a-1", "articles-search-prod", strings.Repeat("a", 32)}
	for _, name := range names {
		if _, err := NewExternal(name, "https://x.example.com"); err != nil {
			t.Errorf("NewExternal(%q) unexpected error: %v", name, err)
		}
	}
}

func TestIsZero(t *testing.T) {
	var ref Ref
	if !ref.IsZero() {
		t.Error("IsZero() = false for zero value")
	}
}
