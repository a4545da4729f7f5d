package scheduler

import (
	"context"
	"strings"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/domain"
	"github.com/spinshelf/spinshelf/internal/logger"
	"github.com/spinshelf/spinshelf/internal/sources/seedfile"
)

// SeedReloader imports the YAML seed catalog at startup and whenever the
// manual trigger fires. Entries already present (same type and title,
// case-insensitive) are skipped, so reimports are idempotent.
type SeedReloader struct {
	filePath string
	catalog  *catalog.Service
	logger   logger.Logger
	trigger  chan struct{}
	stopCh   chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	filePath string,
	svc *catalog.Service,
	log logger.Logger,
	trigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		filePath: filePath,
		catalog:  svc,
		logger:   log,
		trigger:  trigger,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the initial import and listens for manual triggers.
func (sr *SeedReloader) Start(ctx context.Context) error {
	if err := sr.Import(ctx); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-sr.trigger:
				sr.logger.Info("manual seed reload triggered")
				if err := sr.Import(ctx); err != nil {
					sr.logger.Error("seed reload failed", logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Import loads the seed file and creates every entry not yet in the
// catalog. Entries failing validation are skipped with a warning.
func (sr *SeedReloader) Import(ctx context.Context) error {
	config, err := seedfile.NewLoader(sr.filePath).Load()
	if err != nil {
		return err
	}

	inputs := seedfile.NewMapper().MapItems(config)
	if len(inputs) == 0 {
		sr.logger.Info("seed file contains no usable items",
			logger.String("file", sr.filePath))
		return nil
	}

	existing := make(map[string]struct{})
	for _, it := range sr.catalog.List(domain.Filter{IncludeArchived: true}) {
		existing[seedKey(string(it.Type), it.Title)] = struct{}{}
	}

	created, skipped := 0, 0
	for _, in := range inputs {
		if _, ok := existing[seedKey(in.Type, strings.TrimSpace(in.Title))]; ok {
			skipped++
			continue
		}
		it, err := sr.catalog.Create(ctx, in)
		if err != nil {
			sr.logger.Warn("skipping invalid seed entry",
				logger.String("title", in.Title),
				logger.Error(err))
			skipped++
			continue
		}
		existing[seedKey(string(it.Type), it.Title)] = struct{}{}
		created++
	}

	sr.logger.Info("seed import completed",
		logger.String("file", sr.filePath),
		logger.Int("created", created),
		logger.Int("skipped", skipped))

	return nil
}

func seedKey(mediaType, title string) string {
	return mediaType + "\x00" + strings.ToLower(title)
}
