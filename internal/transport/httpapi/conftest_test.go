package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
	healthuc "github.com/stackmesh/aossindex/internal/usecase/health"
	stackuc "github.com/stackmesh/aossindex/internal/usecase/stack"
	"github.com/stackmesh/aossindex/internal/usecase/synth"
)

// mockRepo implements usecase/stack.Repository for handler tests.
type mockRepo struct {
	saveErr    error
	replaceErr error
	getErr     error
	listErr    error
	deleteErr  error

	saved      *domstack.Record
	replaced   *domstack.Record
	getResult  domstack.Record
	listResult []domstack.Record
	deleted    string
}

func (m *mockRepo) Save(_ context.Context, rec domstack.Record) error {
	m.saved = &rec
	return m.saveErr
}

func (m *mockRepo) Replace(_ context.Context, rec domstack.Record, _ int) error {
	m.replaced = &rec
	return m.replaceErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domstack.Record, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domstack.Record, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, name string) error {
	m.deleted = name
	return m.deleteErr
}

// mockPinger implements usecase/health.DBPinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, repo *mockRepo, ping *mockPinger) *Server {
	t.Helper()
	if ping == nil {
		ping = &mockPinger{}
	}
	return NewServer(
		stackuc.New(repo),
		healthuc.New(ping),
		synth.Config{},
		Pagination{},
		zap.NewNop(),
	)
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	s.Routes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func makeStoredRecord(t *testing.T, name string) domstack.Record {
	t.Helper()
	rec, err := domstack.New(name, "test stack", []byte(`{"Resources":{}}`), "sum123", 4)
	if err != nil {
		t.Fatalf("make record: %v", err)
	}
	return rec
}
