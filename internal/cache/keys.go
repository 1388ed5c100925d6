package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	userKeyPrefix      = "user:%d"
	ideasListVersion   = "ideas:list:version"
	ideasListKeyFormat = "ideas:list:v%d:%s:p%d:s%d"

	ProblemCategoriesKey = "problems:categories"
	ProblemTrendingKey   = "problems:trending"
)

const (
	UserTTL      = 5 * time.Minute
	IdeasListTTL = 30 * time.Second
	// The catalog only changes when the seeder runs.
	ProblemsTTL  = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// IdeasListKey returns the cache key for one page of the idea listing under
// the current list version. Search terms are hashed to keep keys bounded.
func IdeasListKey(version int64, search string, page, pageSize int) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(search))))
	return fmt.Sprintf(ideasListKeyFormat, version, hex.EncodeToString(sum[:8]), page, pageSize)
}

// IdeasListVersion returns the current listing generation. Bumping it orphans
// every cached page, which then expires on its own TTL.
func IdeasListVersion(ctx context.Context) (int64, bool) {
	if client == nil {
		return 0, false
	}
	v, err := client.Get(ctx, ideasListVersion).Int64()
	if err != nil {
		// A missing key is generation zero.
		if isNil(err) {
			return 0, true
		}
		return 0, false
	}
	return v, true
}

// BumpIdeasListVersion invalidates all cached listing pages.
func BumpIdeasListVersion(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, ideasListVersion)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
