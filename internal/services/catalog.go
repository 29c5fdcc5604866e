package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/catalog"
	redisclient "github.com/planweaver/planweaver-backend/internal/clients/redis"
	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/plan"
	"github.com/planweaver/planweaver-backend/internal/repos"
	"github.com/planweaver/planweaver-backend/internal/types"
)

var fieldIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// StrategyUpdate is a partial edit; nil pointers leave fields untouched.
// InputFields nil means unchanged, an empty non-nil slice clears them.
type StrategyUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Section     *string
	Subsection  *string
	Content     *string
	InputFields []types.InputFieldSpec
}

// CatalogService wraps the in-memory catalog store with persistence
// write-through, seed hydration and optional cross-instance invalidation.
// Reads are served from memory; every mutation persists first-class rows and
// then updates the store. Concurrent edits to the same strategy stay
// last-write-wins by design.
type CatalogService interface {
	Hydrate(ctx context.Context) error
	SeedBuiltin(ctx context.Context, replace bool) (int, error)

	GetStrategies() []*types.Strategy
	GetCustomStrategies() []*types.Strategy
	GetStrategy(id string) (*types.Strategy, bool)
	Organized(filter plan.Filter) []plan.OrganizedSection

	AddStrategy(ctx context.Context, s *types.Strategy) (*types.Strategy, error)
	AddCustomStrategy(ctx context.Context, s *types.Strategy) (*types.Strategy, error)
	UpdateStrategy(ctx context.Context, id string, update StrategyUpdate) (*types.Strategy, error)
	DeleteStrategy(ctx context.Context, id string) error

	ExportStrategies() []*types.Strategy
	ImportStrategies(ctx context.Context, incoming []*types.Strategy) ([]*types.Strategy, error)

	SetClientConfigs(clientID uuid.UUID, configs []types.ClientStrategyConfig)
	StartBusForwarder(ctx context.Context) error
}

type catalogService struct {
	db                *gorm.DB
	log               *logger.Logger
	store             *catalog.Store
	strategyRepo      repos.StrategyRepo
	clientProfileRepo repos.ClientProfileRepo
	bus               redisclient.CatalogBus
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	store *catalog.Store,
	strategyRepo repos.StrategyRepo,
	clientProfileRepo repos.ClientProfileRepo,
	bus redisclient.CatalogBus,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:                db,
		log:               serviceLog,
		store:             store,
		strategyRepo:      strategyRepo,
		clientProfileRepo: clientProfileRepo,
		bus:               bus,
	}
}

// Hydrate loads the full catalog and every client's saved configurations
// into the in-memory store. An empty strategy table gets the builtin seed
// first, so a fresh database boots with a working catalog.
func (cs *catalogService) Hydrate(ctx context.Context) error {
	count, err := cs.strategyRepo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count strategies: %w", err)
	}
	if count == 0 {
		seed := catalog.BuiltinStrategies(cs.log)
		if _, err := cs.strategyRepo.Create(ctx, nil, seed); err != nil {
			return fmt.Errorf("insert builtin seed: %w", err)
		}
		cs.log.Info("Builtin catalog seeded", "strategies", len(seed))
	}

	rows, err := cs.strategyRepo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("load strategies: %w", err)
	}
	cs.store.Reset()
	for _, row := range rows {
		cs.store.Put(row)
	}

	profiles, err := cs.clientProfileRepo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("load client profiles: %w", err)
	}
	for _, profile := range profiles {
		cs.store.SetClientConfigs(profile.ID, profile.Configs())
	}

	cs.log.Info("Catalog hydrated", "strategies", len(rows), "client_profiles", len(profiles))
	return nil
}

// SeedBuiltin inserts missing builtin seed rows; with replace it overwrites
// existing builtin rows with the seed content. Maintenance path for
// cmd/seed_catalog.
func (cs *catalogService) SeedBuiltin(ctx context.Context, replace bool) (int, error) {
	seed := catalog.BuiltinStrategies(cs.log)
	applied := 0
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(seed))
		for _, s := range seed {
			ids = append(ids, s.ID)
		}
		existing, err := cs.strategyRepo.GetByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("load existing seed rows: %w", err)
		}
		present := make(map[string]bool, len(existing))
		for _, s := range existing {
			present[s.ID] = true
		}

		for _, s := range seed {
			if present[s.ID] {
				if !replace {
					continue
				}
				if _, err := cs.strategyRepo.Save(ctx, tx, s); err != nil {
					return fmt.Errorf("replace seed row %q: %w", s.ID, err)
				}
			} else {
				if _, err := cs.strategyRepo.Create(ctx, tx, []*types.Strategy{s}); err != nil {
					return fmt.Errorf("insert seed row %q: %w", s.ID, err)
				}
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, s := range seed {
		cs.store.Put(s)
		cs.publish(ctx, redisclient.CatalogMessage{Op: redisclient.CatalogOpUpsert, ID: s.ID})
	}
	return applied, nil
}

func (cs *catalogService) GetStrategies() []*types.Strategy {
	return cs.store.All()
}

func (cs *catalogService) GetCustomStrategies() []*types.Strategy {
	return cs.store.Custom()
}

func (cs *catalogService) GetStrategy(id string) (*types.Strategy, bool) {
	return cs.store.Get(id)
}

func (cs *catalogService) Organized(filter plan.Filter) []plan.OrganizedSection {
	return plan.Organize(cs.store.All(), filter)
}

func (cs *catalogService) AddStrategy(ctx context.Context, s *types.Strategy) (*types.Strategy, error) {
	if s == nil {
		return nil, fmt.Errorf("strategy required")
	}
	if strings.TrimSpace(s.ID) == "" {
		s.ID = slugify(s.Title)
	}
	if err := cs.validateStrategy(s); err != nil {
		return nil, err
	}
	if _, exists := cs.store.Get(s.ID); exists {
		return nil, catalog.ErrDuplicateID
	}

	if _, err := cs.strategyRepo.Create(ctx, nil, []*types.Strategy{s}); err != nil {
		return nil, fmt.Errorf("persist strategy: %w", err)
	}
	if err := cs.store.Add(s); err != nil {
		return nil, err
	}
	cs.publish(ctx, redisclient.CatalogMessage{Op: redisclient.CatalogOpUpsert, ID: s.ID})
	return s, nil
}

func (cs *catalogService) AddCustomStrategy(ctx context.Context, s *types.Strategy) (*types.Strategy, error) {
	if s == nil {
		return nil, fmt.Errorf("strategy required")
	}
	s.ID = newCustomID()
	s.IsCustom = true
	return cs.AddStrategy(ctx, s)
}

// UpdateStrategy applies a partial edit. Builtin and custom rows are equally
// editable; the write is last-write-wins with no merge.
func (cs *catalogService) UpdateStrategy(ctx context.Context, id string, update StrategyUpdate) (*types.Strategy, error) {
	current, ok := cs.store.Get(id)
	if !ok {
		return nil, catalog.ErrNotFound
	}

	if update.Title != nil {
		current.Title = *update.Title
	}
	if update.Description != nil {
		current.Description = *update.Description
	}
	if update.Category != nil {
		current.Category = *update.Category
	}
	if update.Section != nil {
		current.Section = *update.Section
	}
	if update.Subsection != nil {
		current.Subsection = *update.Subsection
	}
	if update.Content != nil {
		current.Content = *update.Content
	}
	if update.InputFields != nil {
		if err := current.SetFields(update.InputFields); err != nil {
			return nil, fmt.Errorf("encode input fields: %w", err)
		}
	}
	if err := cs.validateStrategy(current); err != nil {
		return nil, err
	}

	if _, err := cs.strategyRepo.Save(ctx, nil, current); err != nil {
		return nil, fmt.Errorf("persist strategy update: %w", err)
	}
	cs.store.Put(current)
	cs.publish(ctx, redisclient.CatalogMessage{Op: redisclient.CatalogOpUpsert, ID: id})
	return current, nil
}

// DeleteStrategy removes a custom strategy. The store prunes the id from
// every client's stored configuration list and reports which clients
// changed; exactly those profile rows are re-persisted in one transaction
// with the row delete.
func (cs *catalogService) DeleteStrategy(ctx context.Context, id string) error {
	prunedClients, err := cs.store.Delete(id)
	if err != nil {
		return err
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.strategyRepo.DeleteByIDs(ctx, tx, []string{id}); err != nil {
			return fmt.Errorf("delete strategy row: %w", err)
		}
		if len(prunedClients) == 0 {
			return nil
		}
		profiles, err := cs.clientProfileRepo.GetByIDs(ctx, tx, prunedClients)
		if err != nil {
			return fmt.Errorf("load referencing profiles: %w", err)
		}
		for _, profile := range profiles {
			if err := profile.SetConfigs(cs.store.ClientConfigs(profile.ID)); err != nil {
				return fmt.Errorf("encode pruned configs: %w", err)
			}
			if _, err := cs.clientProfileRepo.Save(ctx, tx, profile); err != nil {
				return fmt.Errorf("persist pruned profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		// Memory is ahead of the database now; the next Hydrate reconciles.
		cs.log.Warn("Delete persisted partially, store ahead of DB until rehydrate", "strategy_id", id, "error", err)
		return err
	}

	cs.publish(ctx, redisclient.CatalogMessage{Op: redisclient.CatalogOpDelete, ID: id})
	return nil
}

// ExportStrategies returns every custom strategy for download as JSON.
func (cs *catalogService) ExportStrategies() []*types.Strategy {
	return cs.store.Custom()
}

// ImportStrategies ingests previously exported strategies. Every entry gets
// a fresh id and is forced custom, so imports can never collide with or
// shadow existing rows.
func (cs *catalogService) ImportStrategies(ctx context.Context, incoming []*types.Strategy) ([]*types.Strategy, error) {
	imported := make([]*types.Strategy, 0, len(incoming))
	for _, s := range incoming {
		if s == nil {
			continue
		}
		copied := s.Clone()
		copied.ID = newCustomID()
		copied.IsCustom = true
		if err := cs.validateStrategy(copied); err != nil {
			return nil, fmt.Errorf("import %q: %w", copied.Title, err)
		}
		imported = append(imported, copied)
	}
	if len(imported) == 0 {
		return []*types.Strategy{}, nil
	}

	if _, err := cs.strategyRepo.Create(ctx, nil, imported); err != nil {
		return nil, fmt.Errorf("persist imported strategies: %w", err)
	}
	for _, s := range imported {
		cs.store.Put(s)
		cs.publish(ctx, redisclient.CatalogMessage{Op: redisclient.CatalogOpUpsert, ID: s.ID})
	}
	return imported, nil
}

// SetClientConfigs mirrors a client's saved configuration list into the
// store so the delete cascade sees it.
func (cs *catalogService) SetClientConfigs(clientID uuid.UUID, configs []types.ClientStrategyConfig) {
	cs.store.SetClientConfigs(clientID, configs)
}

// StartBusForwarder applies catalog mutations published by other instances.
// No-op without redis.
func (cs *catalogService) StartBusForwarder(ctx context.Context) error {
	if cs.bus == nil {
		return nil
	}
	return cs.bus.StartForwarder(ctx, func(msg redisclient.CatalogMessage) {
		cs.applyRemote(ctx, msg)
	})
}

func (cs *catalogService) applyRemote(ctx context.Context, msg redisclient.CatalogMessage) {
	switch msg.Op {
	case redisclient.CatalogOpDelete:
		cs.store.Forget(msg.ID)
	case redisclient.CatalogOpUpsert:
		rows, err := cs.strategyRepo.GetByIDs(ctx, nil, []string{msg.ID})
		if err != nil {
			cs.log.Warn("Failed to re-read strategy for remote upsert", "strategy_id", msg.ID, "error", err)
			return
		}
		if len(rows) == 0 {
			cs.store.Forget(msg.ID)
			return
		}
		cs.store.Put(rows[0])
	default:
		cs.log.Warn("Unknown catalog bus op", "op", msg.Op)
	}
}

func (cs *catalogService) publish(ctx context.Context, msg redisclient.CatalogMessage) {
	if cs.bus == nil {
		return
	}
	// Fire and forget; a failed publish never fails the mutation.
	if err := cs.bus.Publish(ctx, msg); err != nil {
		cs.log.Warn("Catalog bus publish failed", "op", msg.Op, "strategy_id", msg.ID, "error", err)
	}
}

func (cs *catalogService) validateStrategy(s *types.Strategy) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("strategy id required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("strategy title required")
	}
	for _, f := range s.Fields() {
		if !fieldIDPattern.MatchString(f.ID) {
			return fmt.Errorf("field id %q must match [A-Za-z0-9_]+", f.ID)
		}
		if f.Type == types.FieldTypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("select field %q requires options", f.ID)
		}
	}
	return nil
}

func newCustomID() string {
	return "custom-" + uuid.New().String()
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = newCustomID()
	}
	return slug
}
