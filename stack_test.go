package aossindex

import (
	"encoding/json"
	"strings"
	"testing"
)

func makeCollection(t *testing.T) Collection {
	t.Helper()
	col, err := ExternalCollection("articles", "https://abc123.us-east-1.aoss.amazonaws.com")
	if err != nil {
		t.Fatalf("make collection: %v", err)
	}
	return col
}

func makeProps(t *testing.T, name string) Props {
	t.Helper()
	return Props{
		Collection:  makeCollection(t),
		IndexName:   name,
		VectorField: "embedding",
		Dimensions:  1024,
	}
}

func TestNewStack_RequiresName(t *testing.T) {
	_, err := NewStack("")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	if !strings.HasPrefix(err.Error(), "aossindex: ") {
		t.Errorf("error = %q, want aossindex prefix", err)
	}
}

func TestNewStack_ServiceTokenRequiresPrincipal(t *testing.T) {
	_, err := NewStack("search", WithServiceToken("arn:aws:lambda:us-east-1:123456789012:function:provider", ""))
	if err == nil {
		t.Fatal("expected error for service token without principal")
	}
}

func TestExternalCollection_Invalid(t *testing.T) {
	if _, err := ExternalCollection("", "https://x.aoss.amazonaws.com"); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := ExternalCollection("articles", ""); err == nil {
		t.Error("expected error for empty endpoint")
	}
	if _, err := ExternalCollection("Articles", "https://x.aoss.amazonaws.com"); err == nil {
		t.Error("expected error for uppercase name")
	}
}

func TestSynth_EmptyStack(t *testing.T) {
	stack, err := NewStack("search")
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := stack.Synth(); err == nil {
		t.Fatal("expected error for empty stack")
	}
}

func TestSynth_SingleIndex(t *testing.T) {
	stack, err := NewStack("search", WithDescription("Article search"))
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := NewVectorIndex(stack, "ArticlesIndex", makeProps(t, "articles-v1")); err != nil {
		t.Fatalf("NewVectorIndex: %v", err)
	}

	tpl, err := stack.Synth()
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	if tpl.ResourceCount() != 4 {
		t.Errorf("ResourceCount() = %d, want 4", tpl.ResourceCount())
	}
	if len(tpl.Checksum()) != 64 {
		t.Errorf("Checksum() = %q, want 64 hex chars", tpl.Checksum())
	}

	ids := tpl.LogicalIDs()
	want := map[string]bool{
		"OpenSearchIndexProviderRole":     false,
		"OpenSearchIndexProviderFunction": false,
		"ArticlesIndexAccessPolicy":       false,
		"ArticlesIndex":                   false,
	}
	for _, id := range ids {
		if _, ok := want[id]; ok {
			want[id] = true
		}
	}
	for id, seen := range want {
		if !seen {
			t.Errorf("logical ID %q missing from %v", id, ids)
		}
	}

	var doc struct {
		AWSTemplateFormatVersion string `json:"AWSTemplateFormatVersion"`
		Description              string
		Resources                map[string]json.RawMessage
	}
	if err := json.Unmarshal(tpl.JSON(), &doc); err != nil {
		t.Fatalf("unmarshal template: %v", err)
	}
	if doc.AWSTemplateFormatVersion != "2010-09-09" {
		t.Errorf("format version = %q", doc.AWSTemplateFormatVersion)
	}
	if doc.Description != "Article search" {
		t.Errorf("description = %q", doc.Description)
	}
	if len(doc.Resources) != 4 {
		t.Errorf("resources = %d, want 4", len(doc.Resources))
	}
}

func TestSynth_Deterministic(t *testing.T) {
	build := func() Template {
		stack, err := NewStack("search")
		if err != nil {
			t.Fatalf("NewStack: %v", err)
		}
		if _, err := NewVectorIndex(stack, "ArticlesIndex", makeProps(t, "articles-v1"),
			WithEngine(EngineNMSLIB), WithMethodParams(24, 256)); err != nil {
			t.Fatalf("NewVectorIndex: %v", err)
		}
		tpl, err := stack.Synth()
		if err != nil {
			t.Fatalf("Synth: %v", err)
		}
		return tpl
	}

	first := build()
	for i := 0; i < 5; i++ {
		next := build()
		if next.Checksum() != first.Checksum() {
			t.Fatalf("checksum differs across runs: %q vs %q", next.Checksum(), first.Checksum())
		}
		if string(next.JSON()) != string(first.JSON()) {
			t.Fatal("serialized template differs across runs")
		}
	}
}

func TestSynth_ServiceTokenMode(t *testing.T) {
	stack, err := NewStack("search", WithServiceToken(
		"arn:aws:lambda:us-east-1:123456789012:function:provider",
		"arn:aws:iam::123456789012:role/provider",
	))
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := NewVectorIndex(stack, "ArticlesIndex", makeProps(t, "articles-v1")); err != nil {
		t.Fatalf("NewVectorIndex: %v", err)
	}

	tpl, err := stack.Synth()
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	if tpl.ResourceCount() != 2 {
		t.Errorf("ResourceCount() = %d, want 2 (no in-stack provider)", tpl.ResourceCount())
	}
	for _, id := range tpl.LogicalIDs() {
		if id == "OpenSearchIndexProviderRole" || id == "OpenSearchIndexProviderFunction" {
			t.Errorf("unexpected provider resource %q with external service token", id)
		}
	}
	if !strings.Contains(string(tpl.JSON()), "arn:aws:lambda:us-east-1:123456789012:function:provider") {
		t.Error("template missing external service token")
	}
}

func TestSynth_ProviderCode(t *testing.T) {
	stack, err := NewStack("search", WithProviderCode("my-artifacts", "provider/bundle.zip"))
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	if _, err := NewVectorIndex(stack, "ArticlesIndex", makeProps(t, "articles-v1")); err != nil {
		t.Fatalf("NewVectorIndex: %v", err)
	}

	tpl, err := stack.Synth()
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	body := string(tpl.JSON())
	if !strings.Contains(body, "my-artifacts") || !strings.Contains(body, "provider/bundle.zip") {
		t.Error("template missing S3 code location")
	}
	if strings.Contains(body, "NotImplementedError") {
		t.Error("placeholder handler present despite S3 bundle")
	}
}

func TestAddCollection_InStack(t *testing.T) {
	stack, err := NewStack("search")
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	col, err := stack.AddCollection("ArticlesCollection", "articles")
	if err != nil {
		t.Fatalf("AddCollection: %v", err)
	}
	if col.Name() != "articles" {
		t.Errorf("Name() = %q", col.Name())
	}

	props := Props{
		Collection:  col,
		IndexName:   "articles-v1",
		VectorField: "embedding",
		Dimensions:  1024,
	}
	if _, err := NewVectorIndex(stack, "ArticlesIndex", props); err != nil {
		t.Fatalf("NewVectorIndex: %v", err)
	}

	tpl, err := stack.Synth()
	if err != nil {
		t.Fatalf("Synth: %v", err)
	}
	if tpl.ResourceCount() != 5 {
		t.Errorf("ResourceCount() = %d, want 5", tpl.ResourceCount())
	}
	body := string(tpl.JSON())
	if !strings.Contains(body, "AWS::OpenSearchServerless::Collection") {
		t.Error("template missing collection resource")
	}
	if !strings.Contains(body, "VECTORSEARCH") {
		t.Error("collection is not VECTORSEARCH type")
	}
}

func TestAddCollection_InvalidName(t *testing.T) {
	stack, err := NewStack("search")
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := stack.AddCollection("ArticlesCollection", "Articles"); err == nil {
		t.Fatal("expected error for invalid collection name")
	}
}
