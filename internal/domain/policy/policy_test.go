package policy

import (
	"encoding/json"
	"strings"
	"testing"
)

func makeRule(t *testing.T) Rule {
	t.Helper()
	r, err := NewRule(ResourceIndex, []string{"index/articles/articles-v1"}, IndexPermissions())
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	return r
}

func TestNewRule_Valid(t *testing.T) {
	r := makeRule(t)
	if r.ResourceType() != ResourceIndex {
		t.Errorf("ResourceType() = %q, want %q", r.ResourceType(), ResourceIndex)
	}
	if len(r.Permissions()) != 6 {
		t.Errorf("Permissions() len = %d, want 6", len(r.Permissions()))
	}
}

func TestNewRule_InvalidResourceType(t *testing.T) {
	_, err := NewRule("model", []string{"model/x"}, []string{"aoss:ReadDocument"})
	if err == nil {
		t.Fatal("expected error for invalid resource type")
	}
}

func TestNewRule_ResourcePrefixMismatch(t *testing.T) {
	_, err := NewRule(ResourceIndex, []string{"collection/articles"}, []string{"aoss:ReadDocument"})
	if err == nil {
		t.Fatal("expected error for prefix mismatch")
	}
}

func TestNewRule_EmptyResourcesOrPermissions(t *testing.T) {
	if _, err := NewRule(ResourceIndex, nil, []string{"aoss:ReadDocument"}); err == nil {
		t.Error("expected error for empty resources")
	}
	if _, err := NewRule(ResourceIndex, []string{"index/a/b"}, nil); err == nil {
		t.Error("expected error for empty permissions")
	}
}

func TestNew_Valid(t *testing.T) {
	p, err := New("search-articles-v1", "test policy", []Rule{makeRule(t)},
		[]string{"arn:aws:iam::123456789012:role/provider"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "search-articles-v1" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestNew_InvalidName(t *testing.T) {
	names := []string{"", "ab", "Upper-Case", "1start", strings.Repeat("a", 33)}
	for _, name := range names {
		_, err := New(name, "", []Rule{makeRule(t)}, []string{"arn:x"})
		if err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestNew_RequiresRulesAndPrincipals(t *testing.T) {
	if _, err := New("abc", "", nil, []string{"arn:x"}); err == nil {
		t.Error("expected error for empty rules")
	}
	if _, err := New("abc", "", []Rule{makeRule(t)}, nil); err == nil {
		t.Error("expected error for empty principals")
	}
}

func TestDocument_Shape(t *testing.T) {
	p, err := New("search-articles-v1", "grants index access", []Rule{makeRule(t)},
		[]string{"${ProviderRoleArn}"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc, err := p.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(doc), &entries); err != nil {
		t.Fatalf("document is not a JSON array: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries len = %d, want 1", len(entries))
	}

	entry := entries[0]
	if entry["Description"] != "grants index access" {
		t.Errorf("Description = %v", entry["Description"])
	}
	principals, ok := entry["Principal"].([]any)
	if !ok || len(principals) != 1 || principals[0] != "${ProviderRoleArn}" {
		t.Errorf("Principal = %v", entry["Principal"])
	}
	rules, ok := entry["Rules"].([]any)
	if !ok || len(rules) != 1 {
		t.Fatalf("Rules = %v", entry["Rules"])
	}
	rule := rules[0].(map[string]any)
	if rule["ResourceType"] != "index" {
		t.Errorf("ResourceType = %v", rule["ResourceType"])
	}
}

func TestDeriveName_Short(t *testing.T) {
	name := DeriveName("search", "articles-v1")
	if name != "search-articles-v1" {
		t.Errorf("DeriveName() = %q, want %q", name, "search-articles-v1")
	}
}

func TestDeriveName_Sanitizes(t *testing.T) {
	name := DeriveName("Search", "logs.2024_q1")
	if name != "search-logs-2024-q1" {
		t.Errorf("DeriveName() = %q, want %q", name, "search-logs-2024-q1")
	}
}

func TestDeriveName_TruncatesWithHash(t *testing.T) {
	long := strings.Repeat("a", 60)
	name := DeriveName("search", long)
	if len(name) != maxNameLen {
		t.Errorf("len = %d, want %d", len(name), maxNameLen)
	}
	if !strings.Contains(name, "-") {
		t.Errorf("name %q missing hash suffix separator", name)
	}

	// Different long inputs must not collide after truncation.
	other := DeriveName("search", strings.Repeat("a", 59)+"b")
	if name == other {
		t.Errorf("distinct inputs collided: %q", name)
	}
}

func TestDeriveName_Deterministic(t *testing.T) {
	long := strings.Repeat("x", 80)
	if DeriveName("p", long) != DeriveName("p", long) {
		t.Error("DeriveName is not deterministic")
	}
}

func TestDeriveName_LeadingDigit(t *testing.T) {
	name := DeriveName("", "1index")
	if name[0] < 'a' || name[0] > 'z' {
		t.Errorf("name %q must start with a letter", name)
	}
}
