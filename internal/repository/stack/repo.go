// Package stack persists synthesized stacks: metadata in a hash, the
// template body as a plain value key next to it.
package stack

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/stackmesh/aossindex/internal/db"
	"github.com/stackmesh/aossindex/internal/domain"
	domstack "github.com/stackmesh/aossindex/internal/domain/stack"
)

// store is the consumer interface for the stack repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

const defaultPrefix = "aossindex:"

// Repo implements usecase/stack.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a stack repository. An empty prefix falls back to the default.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) metaKey(name string) string { return r.prefix + "stack:" + name + ":meta" }
func (r *Repo) bodyKey(name string) string { return r.prefix + "stack:" + name + ":template" }

// Save stores a new stack: HSET metadata then SET template body.
// On body-write failure, rolls back the metadata via DEL.
func (r *Repo) Save(ctx context.Context, rec domstack.Record) error {
	name := rec.Name()

	exists, err := r.store.Exists(ctx, r.metaKey(name))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := r.store.HSet(ctx, r.metaKey(name), recordToHash(rec)); err != nil {
		return fmt.Errorf("hset stack %s: %w", name, err)
	}

	if err := r.store.Set(ctx, r.bodyKey(name), rec.Body()); err != nil {
		cleanupErr := r.store.Del(ctx, r.metaKey(name))
		return errors.Join(fmt.Errorf("set template %s: %w", name, err), cleanupErr)
	}

	return nil
}

// Replace overwrites an existing stack if its stored revision still matches.
func (r *Repo) Replace(ctx context.Context, rec domstack.Record, expectedRevision int) error {
	name := rec.Name()

	m, err := r.store.HGetAll(ctx, r.metaKey(name))
	if err != nil {
		return fmt.Errorf("hgetall stack %s: %w", name, err)
	}
	if len(m) == 0 {
		return domain.ErrNotFound
	}

	current, err := strconv.Atoi(m["revision"])
	if err != nil {
		return fmt.Errorf("invalid stored revision for %s: %w", name, err)
	}
	if current != expectedRevision {
		return domain.NewRevisionConflict(current)
	}

	if err := r.store.HSet(ctx, r.metaKey(name), recordToHash(rec)); err != nil {
		return fmt.Errorf("hset stack %s: %w", name, err)
	}
	if err := r.store.Set(ctx, r.bodyKey(name), rec.Body()); err != nil {
		return fmt.Errorf("set template %s: %w", name, err)
	}
	return nil
}

// Get retrieves a stack with its template body.
func (r *Repo) Get(ctx context.Context, name string) (domstack.Record, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(name))
	if err != nil {
		return domstack.Record{}, fmt.Errorf("hgetall stack %s: %w", name, err)
	}
	if len(m) == 0 {
		return domstack.Record{}, domain.ErrNotFound
	}

	body, err := r.store.Get(ctx, r.bodyKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domstack.Record{}, domain.ErrNotFound
		}
		return domstack.Record{}, fmt.Errorf("get template %s: %w", name, err)
	}

	return recordFromHash(m, body)
}

// List returns all stacks sorted by creation time. Template bodies are not
// loaded; use Get for the full record.
func (r *Repo) List(ctx context.Context) ([]domstack.Record, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"stack:*:meta")
	if err != nil {
		return nil, fmt.Errorf("scan stacks: %w", err)
	}
	if len(keys) == 0 {
		return []domstack.Record{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load stacks: %w", err)
	}

	recs := make([]domstack.Record, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		rec, err := recordFromHash(m, nil)
		if err != nil {
			return nil, fmt.Errorf("hydrate %s: %w", keys[i], err)
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt() != recs[j].CreatedAt() {
			return recs[i].CreatedAt() < recs[j].CreatedAt()
		}
		return recs[i].Name() < recs[j].Name()
	})
	return recs, nil
}

// Delete removes a stack and its template body.
func (r *Repo) Delete(ctx context.Context, name string) error {
	exists, err := r.store.Exists(ctx, r.metaKey(name))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, r.metaKey(name)); err != nil {
		return fmt.Errorf("del stack %s: %w", name, err)
	}
	if err := r.store.Del(ctx, r.bodyKey(name)); err != nil {
		return fmt.Errorf("del template %s: %w", name, err)
	}
	return nil
}
