package stack

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain"
	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
	"github.com/stackmesh/aossindex/internal/domain/template"
)

// Service handles stack registry CRUD operations.
type Service struct {
	repo Repository
}

// New creates a stack service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save validates and stores a newly synthesized stack.
func (s *Service) Save(ctx context.Context, name, description string, tpl template.Template) (domstack.Record, error) {
	rec, err := recordFromTemplate(name, description, tpl)
	if err != nil {
		return domstack.Record{}, err
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return domstack.Record{}, fmt.Errorf("save stack: %w", err)
	}
	return rec, nil
}

// Replace swaps a stack's template, enforcing the expected revision.
func (s *Service) Replace(
	ctx context.Context, name string, expectedRevision int, tpl template.Template,
) (domstack.Record, error) {
	current, err := s.repo.Get(ctx, name)
	if err != nil {
		return domstack.Record{}, fmt.Errorf("get stack: %w", err)
	}
	if current.Revision() != expectedRevision {
		return domstack.Record{}, domain.NewRevisionConflict(current.Revision())
	}

	body, checksum, err := serialize(tpl)
	if err != nil {
		return domstack.Record{}, err
	}

	next := current.WithTemplate(body, checksum, tpl.ResourceCount())
	if err := s.repo.Replace(ctx, next, expectedRevision); err != nil {
		return domstack.Record{}, fmt.Errorf("replace stack: %w", err)
	}
	return next, nil
}

// Get retrieves a stack by name.
func (s *Service) Get(ctx context.Context, name string) (domstack.Record, error) {
	rec, err := s.repo.Get(ctx, name)
	if err != nil {
		return domstack.Record{}, fmt.Errorf("get stack: %w", err)
	}
	return rec, nil
}

// List returns all stacks.
func (s *Service) List(ctx context.Context) ([]domstack.Record, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stacks: %w", err)
	}
	return recs, nil
}

// Delete removes a stack.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete stack: %w", err)
	}
	return nil
}

func recordFromTemplate(name, description string, tpl template.Template) (domstack.Record, error) {
	body, checksum, err := serialize(tpl)
	if err != nil {
		return domstack.Record{}, err
	}

	rec, err := domstack.New(name, description, body, checksum, tpl.ResourceCount())
	if err != nil {
		return domstack.Record{}, fmt.Errorf("validate stack: %w: %w", domain.ErrInvalidDefinition, err)
	}
	return rec, nil
}

func serialize(tpl template.Template) ([]byte, string, error) {
	body, err := json.Marshal(tpl)
	if err != nil {
		return nil, "", fmt.Errorf("serialize template: %w", err)
	}
	checksum, err := tpl.Checksum()
	if err != nil {
		return nil, "", err
	}
	return body, checksum, nil
}
