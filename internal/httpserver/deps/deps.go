package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
	"github.com/MrSnakeDoc/navdesk/internal/security"
	redisstore "github.com/MrSnakeDoc/navdesk/internal/store/redis"
	"github.com/MrSnakeDoc/navdesk/internal/version"
)

// DocumentWriter persists an owner save and starts serving it.
type DocumentWriter interface {
	Apply(ctx context.Context, doc *nav.Document) error
}

// Mirror is the Redis side of the server: search cache, usage counters and
// the mirrored document's metadata.
type Mirror interface {
	Ping(ctx context.Context) error
	CacheResolution(ctx context.Context, query, url string, ttl time.Duration) error
	GetCachedResolution(ctx context.Context, query string) (string, error)
	IncrementUsage(ctx context.Context, url string) (int64, error)
	GetUsageStats(ctx context.Context) (map[string]int64, error)
	SavedAt(ctx context.Context) (time.Time, error)
}

var _ Mirror = (*redisstore.Store)(nil)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Build         version.Info
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the server
	AllowedCIDRS  []string           // IPs allowed to access the ops endpoints
	TrustProxy    bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Index         *index.MemoryIndex // served document
	Writer        DocumentWriter     // owner saves
	Mirror        Mirror             // nil when Redis is disabled
	Tokens        *security.Tokens
	Password      *security.Password
	LoginBurst    int
	LoginRefill   int           // login attempts regained per minute
	HomepageURL   string        // search fallback when nothing matches
	ReloadTrigger chan struct{} // manual reload of the config file
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
