package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/index"
	"github.com/spinshelf/spinshelf/internal/logger"
)

// Persister is the durable side of the item store. The Redis store
// implements it in production; tests use an in-memory fake.
type Persister interface {
	SaveItem(ctx context.Context, it *domain.Item) error
	GetAllItems(ctx context.Context) ([]*domain.Item, error)
	HardDeleteItem(ctx context.Context, id string) error
}

// Service owns the catalog: it gates writes through the validation layer,
// keeps the memory index and the durable store in step, and runs filtered
// reads and spins against the index.
type Service struct {
	persister Persister
	index     *index.MemoryIndex
	validator *domain.Validator
	spinner   *domain.Spinner
	logger    logger.Logger
	now       func() time.Time
}

func New(p Persister, idx *index.MemoryIndex, v *domain.Validator, sp *domain.Spinner, log logger.Logger) *Service {
	return &Service{
		persister: p,
		index:     idx,
		validator: v,
		spinner:   sp,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the caller-supplied fields for a new item.
type CreateInput struct {
	Type     string
	Title    string
	Platform string
	CoverURL string
	Tags     []string
}

// Patch is a typed partial update. A nil field means "leave unchanged";
// there is no way to clear an optional field through update, matching the
// long-standing API behavior.
type Patch struct {
	Type     *string
	Title    *string
	Platform *string
	CoverURL *string
	Tags     *[]string
	Status   *string
}

// IsZero reports whether the patch carries no fields at all.
func (p Patch) IsZero() bool {
	return p.Type == nil && p.Title == nil && p.Platform == nil &&
		p.CoverURL == nil && p.Tags == nil && p.Status == nil
}

// Create validates the input, assigns server fields and persists the item.
// Nothing is written on validation failure.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Item, error) {
	mt, err := domain.ParseMediaType(in.Type)
	if err != nil {
		return nil, err
	}
	title, err := s.validator.Title(in.Title)
	if err != nil {
		return nil, err
	}
	platform, err := s.validator.Platform(in.Platform, mt)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.validator.CoverURL(in.CoverURL)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	it := &domain.Item{
		ID:        uuid.NewString(),
		Type:      mt,
		Title:     title,
		Platform:  platform,
		CoverURL:  coverURL,
		Tags:      s.validator.Tags(in.Tags),
		Status:    domain.StatusActive,
		AddedAt:   now.Unix(),
		CreatedAt: now,
		UpdatedAt: now,
		Seq:       s.index.NextSeq(),
	}

	if err := s.persister.SaveItem(ctx, it); err != nil {
		return nil, err
	}
	s.index.Put(it)

	s.logger.Info("created media item",
		logger.String("id", it.ID),
		logger.String("type", string(it.Type)),
		logger.String("title", it.Title))
	return it, nil
}

// Get returns a non-deleted item by id.
func (s *Service) Get(id string) (*domain.Item, error) {
	it, ok := s.index.Get(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return it, nil
}

// List returns the filtered catalog, newest first.
func (s *Service) List(f domain.Filter) []*domain.Item {
	return f.Apply(s.index.List())
}

// Count returns how many non-deleted items match the filter, ignoring
// pagination.
func (s *Service) Count(f domain.Filter) int {
	f.Limit = 0
	f.Offset = 0
	return len(f.Apply(s.index.List()))
}

// Update applies a partial update. The merge and re-validation run
// atomically against the index; cross-field constraints (platform vs the
// effective type) are checked on the merged result. The merged item is
// then persisted; if that fails the index change is rolled back.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*domain.Item, error) {
	if p.IsZero() {
		return nil, &domain.ValidationError{Field: "body", Reason: "no fields provided for update"}
	}

	updated, prev, rev, err := s.index.Mutate(id, func(it *domain.Item) error {
		return s.merge(it, p)
	})
	if err != nil {
		return nil, err
	}

	if err := s.persister.SaveItem(ctx, updated); err != nil {
		// Roll back only our own commit. A later write that already
		// superseded it must survive.
		if !s.index.RestoreIfCurrent(prev, rev) {
			s.logger.Warn("skipping index rollback, item changed since",
				logger.String("id", id))
		}
		return nil, err
	}

	s.logger.Info("updated media item", logger.String("id", id))
	return updated, nil
}

// merge folds the patch into it, re-validating every touched field plus
// the platform/type pair on the merged values.
func (s *Service) merge(it *domain.Item, p Patch) error {
	if p.Type != nil {
		mt, err := domain.ParseMediaType(*p.Type)
		if err != nil {
			return err
		}
		it.Type = mt
	}
	if p.Title != nil {
		title, err := s.validator.Title(*p.Title)
		if err != nil {
			return err
		}
		it.Title = title
	}
	// An empty patch value for an optional field means "leave unchanged",
	// never "clear". Updates cannot remove a cover or platform.
	if p.CoverURL != nil && strings.TrimSpace(*p.CoverURL) != "" {
		coverURL, err := s.validator.CoverURL(*p.CoverURL)
		if err != nil {
			return err
		}
		it.CoverURL = coverURL
	}
	if p.Tags != nil {
		it.Tags = s.validator.Tags(*p.Tags)
	}
	if p.Status != nil {
		st, err := domain.ParseStatus(*p.Status)
		if err != nil {
			return err
		}
		it.Status = st
	}

	// Platform is validated against the effective (possibly just changed)
	// type, whether it came from the patch or was already set.
	raw := it.Platform
	if p.Platform != nil && strings.TrimSpace(*p.Platform) != "" {
		raw = *p.Platform
	}
	platform, err := s.validator.Platform(raw, it.Type)
	if err != nil {
		return err
	}
	it.Platform = platform

	it.UpdatedAt = s.now().UTC()
	return nil
}

// SoftDelete marks an item deleted. Deleting an absent or already-deleted
// item is a NotFoundError.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	updated, prev, rev, err := s.index.Mutate(id, func(it *domain.Item) error {
		it.Deleted = true
		it.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.persister.SaveItem(ctx, updated); err != nil {
		if !s.index.RestoreIfCurrent(prev, rev) {
			s.logger.Warn("skipping index rollback, item changed since",
				logger.String("id", id))
		}
		return err
	}

	s.logger.Info("soft deleted media item", logger.String("id", id))
	return nil
}

// HardDelete physically removes an item, soft-deleted or not. This is the
// administrative path; the public API only soft-deletes.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	if !s.index.Has(id) {
		return &domain.NotFoundError{ID: id}
	}
	if err := s.persister.HardDeleteItem(ctx, id); err != nil {
		return err
	}
	s.index.Delete(id)

	s.logger.Info("hard deleted media item", logger.String("id", id))
	return nil
}

// Spin draws one item uniformly at random from the filtered pool. The pool
// is always restricted to active items, whatever status or includeArchived
// say, and is never paginated. Spinning mutates nothing.
func (s *Service) Spin(f domain.Filter) domain.SpinResult {
	active := domain.StatusActive
	f.Status = &active
	f.IncludeArchived = false
	f.Limit = 0
	f.Offset = 0
	f.Search = ""

	res := s.spinner.Spin(f.Apply(s.index.List()))
	if res.Winner != nil {
		s.logger.Info("spin selected item",
			logger.String("id", res.Winner.ID),
			logger.String("title", res.Winner.Title),
			logger.Int("pool_size", res.TotalPoolSize))
	} else {
		s.logger.Debug("spin found empty pool")
	}
	return res
}

// Stats summarizes the catalog by status and type over non-deleted items.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Done     int `json:"done"`
	Archived int `json:"archived"`
	Games    int `json:"games"`
	Movies   int `json:"movies"`
}

func (s *Service) Statistics() Stats {
	active, done, archived := domain.StatusActive, domain.StatusDone, domain.StatusArchived
	game, movie := domain.MediaTypeGame, domain.MediaTypeMovie
	return Stats{
		Total:    s.Count(domain.Filter{IncludeArchived: true}),
		Active:   s.Count(domain.Filter{Status: &active}),
		Done:     s.Count(domain.Filter{Status: &done}),
		Archived: s.Count(domain.Filter{Status: &archived}),
		Games:    s.Count(domain.Filter{Type: &game, IncludeArchived: true}),
		Movies:   s.Count(domain.Filter{Type: &movie, IncludeArchived: true}),
	}
}
