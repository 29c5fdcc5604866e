// Package catalog holds the in-memory strategy catalog: the primary id map,
// derived grouping indices rebuilt lazily on read, and the per-client
// configuration lists the delete cascade prunes.
package catalog

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/types"
)

var (
	ErrNotFound        = errors.New("strategy not found")
	ErrDuplicateID     = errors.New("strategy id already exists")
	ErrBuiltinStrategy = errors.New("builtin strategies cannot be deleted")
)

type indexState int

const (
	indexFresh indexState = iota
	indexDirty
)

// Store is the process-lifetime catalog handle. One RWMutex guards the
// primary map, insertion order, client config lists and the derived indices;
// mutations flip the index state to Dirty in the same critical section, and
// the next index read rebuilds all three indices at once.
type Store struct {
	log *logger.Logger

	mu            sync.RWMutex
	strategies    map[string]*types.Strategy
	order         []string
	clientConfigs map[uuid.UUID][]types.ClientStrategyConfig

	byCategory   map[string][]string
	bySection    map[string][]string
	bySubsection map[string][]string
	state        indexState
	rebuilds     int
}

func NewStore(log *logger.Logger) *Store {
	var storeLog *logger.Logger
	if log != nil {
		storeLog = log.With("component", "CatalogStore")
	}
	return &Store{
		log:           storeLog,
		strategies:    make(map[string]*types.Strategy),
		clientConfigs: make(map[uuid.UUID][]types.ClientStrategyConfig),
		byCategory:    make(map[string][]string),
		bySection:     make(map[string][]string),
		bySubsection:  make(map[string][]string),
	}
}

// Add inserts a new strategy; the id must be free across builtin and custom
// rows alike.
func (st *Store) Add(s *types.Strategy) error {
	if s == nil || s.ID == "" {
		return ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.strategies[s.ID]; exists {
		return ErrDuplicateID
	}
	st.strategies[s.ID] = s.Clone()
	st.order = append(st.order, s.ID)
	st.state = indexDirty
	return nil
}

// Put upserts a strategy, keeping its original insertion position on update.
func (st *Store) Put(s *types.Strategy) {
	if s == nil || s.ID == "" {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, exists := st.strategies[s.ID]; !exists {
		st.order = append(st.order, s.ID)
	}
	st.strategies[s.ID] = s.Clone()
	st.state = indexDirty
}

func (st *Store) Get(id string) (*types.Strategy, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.strategies[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// All returns a defensive snapshot in insertion order, builtin and custom
// together.
func (st *Store) All() []*types.Strategy {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*types.Strategy, 0, len(st.order))
	for _, id := range st.order {
		if s, ok := st.strategies[id]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Custom returns only user-authored strategies, insertion order.
func (st *Store) Custom() []*types.Strategy {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*types.Strategy
	for _, id := range st.order {
		if s, ok := st.strategies[id]; ok && s.IsCustom {
			out = append(out, s.Clone())
		}
	}
	return out
}

func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.strategies)
}

// Delete removes a custom strategy and prunes its id from every stored
// client configuration list, so no live configuration can reference a
// deleted strategy. Builtin rows are refused. Returns the ids of clients
// whose lists changed so the caller can persist exactly those.
func (st *Store) Delete(id string) ([]uuid.UUID, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.strategies[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.IsCustom {
		return nil, ErrBuiltinStrategy
	}
	pruned := st.removeLocked(id)
	return pruned, nil
}

// Forget removes a strategy without the builtin guard. Used when applying a
// delete that another instance already validated and persisted.
func (st *Store) Forget(id string) []uuid.UUID {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.strategies[id]; !ok {
		return nil
	}
	return st.removeLocked(id)
}

func (st *Store) removeLocked(id string) []uuid.UUID {
	delete(st.strategies, id)
	for i, existing := range st.order {
		if existing == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}

	var prunedClients []uuid.UUID
	for clientID, configs := range st.clientConfigs {
		kept := configs[:0:0]
		changed := false
		for _, cfg := range configs {
			if cfg.StrategyID == id {
				changed = true
				continue
			}
			kept = append(kept, cfg)
		}
		if changed {
			st.clientConfigs[clientID] = kept
			prunedClients = append(prunedClients, clientID)
		}
	}

	st.state = indexDirty
	return prunedClients
}

// SetClientConfigs replaces one client's stored configuration list.
func (st *Store) SetClientConfigs(clientID uuid.UUID, configs []types.ClientStrategyConfig) {
	st.mu.Lock()
	defer st.mu.Unlock()
	copied := make([]types.ClientStrategyConfig, len(configs))
	copy(copied, configs)
	st.clientConfigs[clientID] = copied
}

func (st *Store) ClientConfigs(clientID uuid.UUID) []types.ClientStrategyConfig {
	st.mu.RLock()
	defer st.mu.RUnlock()
	configs := st.clientConfigs[clientID]
	out := make([]types.ClientStrategyConfig, len(configs))
	copy(out, configs)
	return out
}

func (st *Store) DropClientConfigs(clientID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.clientConfigs, clientID)
}

func (st *Store) ByCategory(category string) []*types.Strategy {
	return st.byIndex(func(s *Store) map[string][]string { return s.byCategory }, category)
}

func (st *Store) BySection(section string) []*types.Strategy {
	return st.byIndex(func(s *Store) map[string][]string { return s.bySection }, section)
}

func (st *Store) BySubsection(subsection string) []*types.Strategy {
	return st.byIndex(func(s *Store) map[string][]string { return s.bySubsection }, subsection)
}

// byIndex is the lazy read path: the fast path is a shared lock over fresh
// indices; a dirty state upgrades to the write lock and rebuilds all three
// indices in one pass. Never stale, never rebuilt more than once per burst
// of writes.
func (st *Store) byIndex(pick func(*Store) map[string][]string, key string) []*types.Strategy {
	st.mu.RLock()
	if st.state == indexFresh {
		out := st.cloneByIDsLocked(pick(st)[key])
		st.mu.RUnlock()
		return out
	}
	st.mu.RUnlock()

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.state == indexDirty {
		st.rebuildIndexesLocked()
	}
	return st.cloneByIDsLocked(pick(st)[key])
}

func (st *Store) rebuildIndexesLocked() {
	st.byCategory = make(map[string][]string)
	st.bySection = make(map[string][]string)
	st.bySubsection = make(map[string][]string)
	for _, id := range st.order {
		s, ok := st.strategies[id]
		if !ok {
			continue
		}
		if s.Category != "" {
			st.byCategory[s.Category] = append(st.byCategory[s.Category], id)
		}
		if s.Section != "" {
			st.bySection[s.Section] = append(st.bySection[s.Section], id)
		}
		if s.Subsection != "" {
			st.bySubsection[s.Subsection] = append(st.bySubsection[s.Subsection], id)
		}
	}
	st.state = indexFresh
	st.rebuilds++
	if st.log != nil {
		st.log.Debug("Catalog indices rebuilt", "strategies", len(st.strategies), "rebuilds", st.rebuilds)
	}
}

func (st *Store) cloneByIDsLocked(ids []string) []*types.Strategy {
	out := make([]*types.Strategy, 0, len(ids))
	for _, id := range ids {
		if s, ok := st.strategies[id]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Rebuilds reports how many index rebuilds have happened. Test hook for the
// once-per-write-burst property.
func (st *Store) Rebuilds() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.rebuilds
}

// Reset empties the store. Used by tests and full re-hydration.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.strategies = make(map[string]*types.Strategy)
	st.order = nil
	st.clientConfigs = make(map[uuid.UUID][]types.ClientStrategyConfig)
	st.byCategory = make(map[string][]string)
	st.bySection = make(map[string][]string)
	st.bySubsection = make(map[string][]string)
	st.state = indexFresh
}
