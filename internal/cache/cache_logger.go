package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateOfferingCache invalidates all caches touched by an offering write
func InvalidateOfferingCache(ctx context.Context, cm *CacheManager, offeringID, facilitatorID uint) {
	SafeDelete(ctx, cm.Offering,
		fmt.Sprintf("id:%d", offeringID),
		fmt.Sprintf("details:%d", offeringID))

	SafeInvalidatePattern(ctx, cm.Offering, fmt.Sprintf("facilitator:%d:*", facilitatorID))
	SafeInvalidatePattern(ctx, cm.Offering, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("offering:%d:*", offeringID))
}

// InvalidateUserCache invalidates cached user and role lookups
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
	SafeInvalidatePattern(ctx, cm.User, fmt.Sprintf("role:%d:*", userID))
	SafeInvalidatePattern(ctx, cm.User, "list:*")
}

// InvalidateCatalogCache invalidates catalog list caches after a write
func InvalidateCatalogCache(ctx context.Context, cm *CacheManager, entity string) {
	SafeInvalidatePattern(ctx, cm.Catalog, fmt.Sprintf("%s:*", entity))
}
