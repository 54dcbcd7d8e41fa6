package httpapi

import (
	"testing"
	"time"

	"github.com/stackmesh/aossindex/internal/domain/index"
	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
)

func TestDeriveLogicalID(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"articles-v1", "ArticlesV1Index"},
		{"articles", "ArticlesIndex"},
		{"logs.2024_q1", "Logs2024Q1Index"},
		{"a-b-c", "ABCIndex"},
	}
	for _, tc := range cases {
		if got := deriveLogicalID(tc.name); got != tc.want {
			t.Errorf("deriveLogicalID(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIndexFromDTO_Defaults(t *testing.T) {
	def, err := indexFromDTO(IndexDTO{
		Name:        "articles-v1",
		VectorField: "embedding",
		Dimensions:  1024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Engine() != index.EngineFAISS {
		t.Errorf("engine = %q, want faiss default", def.Engine())
	}
	if def.Shards() != 2 || def.Replicas() != 0 {
		t.Errorf("sharding = %d/%d, want 2/0", def.Shards(), def.Replicas())
	}
}

func TestIndexFromDTO_AllOptions(t *testing.T) {
	efSearch, shards, replicas := 256, 4, 1
	def, err := indexFromDTO(IndexDTO{
		Name:         "articles-v1",
		VectorField:  "embedding",
		Dimensions:   768,
		Engine:       "nmslib",
		SpaceType:    "cosinesimil",
		Method:       "hnsw",
		MethodParams: &MethodParamsDTO{M: 32, EFConstruction: 256},
		EFSearch:     &efSearch,
		Shards:       &shards,
		Replicas:     &replicas,
		Mappings:     []MappingDTO{{Name: "title", DataType: "text", Filterable: true}},
		Analyzer:     &AnalyzerDTO{Tokenizer: "kuromoji_tokenizer", TokenFilters: []string{"lowercase"}},
		Settings:     map[string]any{"index.refresh_interval": "30s"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Engine() != index.EngineNMSLIB {
		t.Errorf("engine = %q", def.Engine())
	}
	if def.Params().M != 32 || def.Params().EFConstruction != 256 {
		t.Errorf("method params = %+v", def.Params())
	}
	if def.EFSearch() != 256 || def.Shards() != 4 || def.Replicas() != 1 {
		t.Errorf("tuning = %d/%d/%d", def.EFSearch(), def.Shards(), def.Replicas())
	}
	if len(def.Fields()) != 1 || def.Fields()[0].Name() != "title" {
		t.Errorf("fields = %+v", def.Fields())
	}
	if def.Analyzer().IsZero() {
		t.Error("analyzer not applied")
	}
}

func TestIndexFromDTO_InvalidMapping(t *testing.T) {
	_, err := indexFromDTO(IndexDTO{
		Name:        "articles-v1",
		VectorField: "embedding",
		Dimensions:  1024,
		Mappings:    []MappingDTO{{Name: "title", DataType: "bogus"}},
	})
	if err == nil {
		t.Fatal("expected error for invalid mapping data type")
	}
}

func TestStackToSummary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := domstack.Reconstruct("search-stack", "desc", nil, "sum123", 4, created.UnixMilli(), 3)

	got := stackToSummary(rec)
	if got.Name != "search-stack" || got.Revision != 3 || got.ResourceCount != 4 {
		t.Errorf("summary = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
}
