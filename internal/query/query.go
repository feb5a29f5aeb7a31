// Package query is the cached data-access layer. Reads go through the
// injected cache keyed by (namespace, key) and only hit the API on a miss;
// mutations call the API, then invalidate their declared namespaces, then
// emit exactly one notification. Mutations are pessimistic: the cache is
// untouched until the backend call has settled successfully.
package query

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/singleflight"

	"classtrack/internal/apiclient"
	"classtrack/internal/cache"
	"classtrack/internal/notify"
)

// ErrNotReady is returned by a gated read whose required key is empty. The
// underlying fetch is not invoked in that case.
var ErrNotReady = errors.New("query: required key not set")

// Service binds the API client, the cache and the notification surface.
type Service struct {
	api      *apiclient.Client
	cache    cache.Store
	notifier notify.Notifier
	group    singleflight.Group
}

// NewService creates the data-access layer.
func NewService(api *apiclient.Client, c cache.Store, n notify.Notifier) *Service {
	return &Service{api: api, cache: c, notifier: n}
}

// fetch resolves (namespace, key) from the cache, falling back to fn on a
// miss. Concurrent misses of the same key coalesce into one backend call.
func fetch[T any](ctx context.Context, s *Service, namespace, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok, err := s.cache.Get(ctx, namespace, key); err == nil && ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		// Undecodable entry: drop through and refetch.
	}

	res, err, _ := s.group.Do(namespace+"/"+key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			_ = s.cache.Set(ctx, namespace, key, raw)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

// mutate runs a backend mutation with the fixed completion order: on
// success invalidate every declared namespace, then notify once; on failure
// leave the cache untouched and notify once.
func (s *Service) mutate(ctx context.Context, op string, namespaces []string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		s.notifier.Notify(notify.Notification{
			Title:       op + " failed",
			Description: err.Error(),
			Variant:     notify.VariantDestructive,
		})
		return err
	}
	for _, ns := range namespaces {
		_ = s.cache.Invalidate(ctx, ns)
	}
	s.notifier.Notify(notify.Notification{
		Title:   op,
		Variant: notify.VariantSuccess,
	})
	return nil
}

// reject reports a client-side validation failure: one notification, no
// backend call.
func (s *Service) reject(op, reason string) error {
	s.notifier.Notify(notify.Notification{
		Title:       op + " failed",
		Description: reason,
		Variant:     notify.VariantDestructive,
	})
	return errors.New(reason)
}
