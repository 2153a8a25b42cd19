/*
Package memory in-memory repositories and unit of work.

Repositories keep snapshots (ReconstructionDTO values), never the aggregate pointers
handed to Save, so every FindByID returns an independent instance. Writes are
version-checked exactly like the SQL repositories.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"ddd-course/domain/shared"
)

// journalKey context key of the undo journal opened by UnitOfWork.Execute
type journalKey struct{}

// journal undo log of the writes made inside one unit of work
type journal struct {
	mu    sync.Mutex
	undos []func()
}

func (j *journal) record(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undos = append(j.undos, undo)
}

// rollback undoes the recorded writes, newest first
func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

func contextWithJournal(ctx context.Context, j *journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

func journalFromContext(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// row one stored snapshot plus its insertion sequence
type row[D any] struct {
	dto     D
	version int
	seq     int64
}

// store version-checked snapshot table shared by the repositories
type store[D any] struct {
	entity string
	mu     sync.RWMutex
	rows   map[shared.ID]row[D]
	seq    int64
}

func newStore[D any](entity string) *store[D] {
	return &store[D]{entity: entity, rows: make(map[shared.ID]row[D])}
}

// put writes dto when the stored version equals agg.PersistedVersion()
func (s *store[D]) put(ctx context.Context, agg shared.Versioned, dto D) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if agg.ID().IsZero() {
		return shared.NewNotInitializedError(s.entity, "save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := agg.ID()
	previous, exists := s.rows[id]
	expected := agg.PersistedVersion()
	stored := 0
	if exists {
		stored = previous.version
	}
	if stored != expected {
		return shared.NewConcurrencyConflictError(s.entity, id, expected, stored)
	}

	seq := previous.seq
	if !exists {
		s.seq++
		seq = s.seq
	}
	s.rows[id] = row[D]{dto: dto, version: agg.Version(), seq: seq}

	if j := journalFromContext(ctx); j != nil {
		j.record(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if exists {
				s.rows[id] = previous
			} else {
				delete(s.rows, id)
			}
		})
	}
	agg.MarkPersisted()
	return nil
}

func (s *store[D]) get(ctx context.Context, id shared.ID) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return zero, shared.NewNotFoundError(s.entity, id)
	}
	return r.dto, nil
}

// all snapshots in insertion order
func (s *store[D]) all(ctx context.Context) ([]D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rows := make([]row[D], 0, len(s.rows))
	for _, r := range s.rows {
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	dtos := make([]D, len(rows))
	for i, r := range rows {
		dtos[i] = r.dto
	}
	return dtos, nil
}

func (s *store[D]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// filter rebuilds every snapshot and keeps those satisfying spec
func filter[D any, A any](ctx context.Context, s *store[D], rebuild func(D) (A, error), spec shared.Specification[A]) ([]A, error) {
	dtos, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]A, 0, len(dtos))
	for _, dto := range dtos {
		agg, err := rebuild(dto)
		if err != nil {
			return nil, err
		}
		if spec == nil || spec.IsSatisfiedBy(ctx, agg) {
			result = append(result, agg)
		}
	}
	return result, nil
}
