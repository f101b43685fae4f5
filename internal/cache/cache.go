package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache fronts the public read endpoints. Implementations must tolerate a
// cold backend; callers treat every error as a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ConvocatoriaKey is the detail-cache key for one convocatoria; every
// mutation of the convocatoria or its archivos purges it.
func ConvocatoriaKey(id uint) string {
	return fmt.Sprintf("convocatoria:%d", id)
}
