package scheduler

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
	redisstore "github.com/MrSnakeDoc/navdesk/internal/store/redis"
)

// SourceRedis marks a document restored from the mirror.
const SourceRedis = "redis"

// DocumentMirror is the part of the Redis store the scheduler needs.
type DocumentMirror interface {
	SaveDocument(ctx context.Context, doc *nav.Document, source string) error
	LoadDocument(ctx context.Context) (*nav.Document, error)
	FlushCache(ctx context.Context) error
}

var _ DocumentMirror = (*redisstore.Store)(nil)

// RedisSyncer restores the document from Redis when no config file exists
type RedisSyncer struct {
	store  DocumentMirror
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(store DocumentMirror, idx *index.MemoryIndex, log logger.Logger) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the mirrored document into the index. It reports false when
// Redis holds nothing.
func (rs *RedisSyncer) Sync(ctx context.Context) (bool, error) {
	rs.logger.Info("syncing document from redis to memory")

	doc, err := rs.store.LoadDocument(ctx)
	if errors.Is(err, apperr.ErrNotFound) {
		rs.logger.Info("no document found in redis")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	rs.index.Update(doc, SourceRedis)
	rs.logger.Info("synced document from redis",
		logger.Int("categories", len(doc.Categories)))
	return true, nil
}

// Mirror writes doc to Redis and drops cached search results. Best effort.
func (rs *RedisSyncer) Mirror(ctx context.Context, doc *nav.Document, source string) {
	if err := rs.store.SaveDocument(ctx, doc, source); err != nil {
		rs.logger.Warn("failed to mirror document to redis", logger.Error(err))
		return
	}
	if err := rs.store.FlushCache(ctx); err != nil {
		rs.logger.Warn("failed to flush search cache", logger.Error(err))
	}
}
