// Package setting serves admin-editable settings with a Redis cache-aside
// layer in front of the settings table.
package setting

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"bsu_chat_server/internal/dao/mysql/repository"
	myredis "bsu_chat_server/internal/dao/redis"
	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "bsu_chat:setting:"

type settingService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
	ttl   time.Duration
	group singleflight.Group
	// gen is bumped by every Update; a write-back loaded under an older
	// generation is discarded.
	gen atomic.Uint64
}

// NewSettingService injects the repositories and an optional cache.
func NewSettingService(repos *repository.Repositories, cache myredis.AsyncCacheService) *settingService {
	return &settingService{
		repos: repos,
		cache: cache,
		ttl:   constants.REDIS_TIMEOUT * time.Minute,
	}
}

func cacheKey(key string) string { return keyPrefix + key }

func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	values, err := s.GetValues(ctx, key)
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// GetValues reads the cache first. Keys missing from the cache, or all keys
// when the cache fails, are loaded from the database; concurrent loads of
// the same key set share one query. Loaded values, including "" for unset
// keys, are written back to the cache in the background.
func (s *settingService) GetValues(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	missing := keys

	if s.cache != nil && len(keys) > 0 {
		cacheKeys := make([]string, len(keys))
		for i, k := range keys {
			cacheKeys[i] = cacheKey(k)
		}
		cached, err := s.cache.MGet(ctx, cacheKeys...)
		if err != nil {
			zap.L().Warn("settings cache read failed, using database", zap.Error(err))
		} else {
			missing = make([]string, 0, len(keys))
			for _, k := range keys {
				if v, ok := cached[cacheKey(k)]; ok {
					out[k] = v
				} else {
					missing = append(missing, k)
				}
			}
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, gen, err := s.load(missing)
	if err != nil {
		return nil, err
	}
	for _, k := range missing {
		out[k] = loaded[k]
	}
	s.writeBack(gen, missing, loaded)
	return out, nil
}

// loadResult carries the generation observed when the query started, so
// callers that join an in-flight load inherit its generation too.
type loadResult struct {
	values map[string]string
	gen    uint64
}

func (s *settingService) load(keys []string) (map[string]string, uint64, error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	v, err, _ := s.group.Do(strings.Join(sorted, "\x00"), func() (interface{}, error) {
		gen := s.gen.Load()
		values, err := s.repos.Setting.GetMany(sorted)
		if err != nil {
			return nil, err
		}
		return loadResult{values: values, gen: gen}, nil
	})
	if err != nil {
		zap.L().Error("settings load failed", zap.Strings("keys", sorted), zap.Error(err))
		return nil, 0, errorx.Wrap(err, errorx.CodeDBError, "load settings")
	}
	res := v.(loadResult)
	return res.values, res.gen, nil
}

func (s *settingService) writeBack(gen uint64, keys []string, values map[string]string) {
	if s.cache == nil {
		return
	}
	pairs := make(map[string]string, len(keys))
	for _, k := range keys {
		pairs[k] = values[k]
	}
	s.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for k, v := range pairs {
			if s.gen.Load() != gen {
				return
			}
			if err := s.cache.Set(ctx, cacheKey(k), v, s.ttl); err != nil {
				zap.L().Warn("settings cache write failed", zap.String("key", k), zap.Error(err))
				return
			}
		}
	})
}

// Update upserts the value and drops the cached copy. A failed cache delete
// is logged; the entry then expires with its TTL.
func (s *settingService) Update(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errorx.ErrInvalidParam
	}
	if err := s.repos.Setting.Upsert(key, value); err != nil {
		zap.L().Error("settings upsert failed", zap.String("key", key), zap.Error(err))
		return errorx.ErrServerBusy
	}
	s.gen.Add(1)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(key)); err != nil {
			zap.L().Warn("settings cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
	zap.L().Info("setting updated", zap.String("key", key))
	return nil
}
