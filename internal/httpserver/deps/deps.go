package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spinshelf/spinshelf/internal/catalog"
	"github.com/spinshelf/spinshelf/internal/logger"
	"github.com/spinshelf/spinshelf/internal/scheduler"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Catalog     *catalog.Service  // the item store + filter + spin surface
	Purger      *scheduler.Purger // admin purge trigger
	RedisClient *redis.Client     // used by readiness checks only

	AllowedHosts []string // Host headers allowed on admin routes
	AllowedCIDRS []string // IPs/CIDRs allowed on admin routes
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	WriteRateLimit int // max write requests per IP per minute (0 = unlimited)

	SeedReloadTrigger chan struct{} // nil when no seed file is configured
}
