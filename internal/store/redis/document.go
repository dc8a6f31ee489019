package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Store mirrors the navigation document, search cache and jump counters in Redis
type Store struct {
	client redis.Cmdable
}

// NewStore creates a new Redis store
func NewStore(client redis.Cmdable) *Store {
	return &Store{
		client: client,
	}
}

// SaveDocument stores the document as YAML together with its source and save time
func (s *Store) SaveDocument(ctx context.Context, doc *nav.Document, source string) error {
	data, err := nav.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, KeyDocument, data, 0)
		pipe.HSet(ctx, KeyDocumentMeta,
			"source", source,
			"saved_at", strconv.FormatInt(time.Now().Unix(), 10),
			"bytes", len(data),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// LoadDocument returns the mirrored document, or apperr.ErrNotFound when none is stored
func (s *Store) LoadDocument(ctx context.Context) (*nav.Document, error) {
	data, err := s.client.Get(ctx, KeyDocument).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc, err := nav.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mirrored document: %w", err)
	}
	return doc, nil
}

// SavedAt returns when the mirror was last written
func (s *Store) SavedAt(ctx context.Context) (time.Time, error) {
	v, err := s.client.HGet(ctx, KeyDocumentMeta, "saved_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, apperr.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get document meta: %w", err)
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid saved_at %q: %w", v, err)
	}
	return time.Unix(sec, 0), nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
