package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyResultTTL = 24 * time.Hour
	idempotencyLockTTL   = 30 * time.Second

	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"
)

// storedResult is what a handler records for a completed key.
type storedResult struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the stored result of a POST whose Idempotency-Key was
// already completed and rejects a repeat while the first one is in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := contextutil.WithOperationID(c.Request.Context(), idempKey)
		c.Request = c.Request.WithContext(ctx)
		log := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached storedResult
			if json.Unmarshal([]byte(val), &cached) == nil && cached.Status != 0 {
				log.Debug("idempotent replay", zap.String("operation_id", idempKey))
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Error("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"This action is already being processed", nil)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()
	}
}

// ReleaseIdempotencyLock drops the in-flight lock taken by Idempotency.
// Handlers defer it before doing their work.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lk := c.GetString(idempotencyLockKey); lk != "" {
		rdb.Del(c.Request.Context(), lk)
	}
}

// StoreIdempotentResult records a successful result so a repeated key
// replays it.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	ck := c.GetString(idempotencyCacheKey)
	if ck == "" {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(storedResult{Status: status, Data: raw})
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), ck, payload, IdempotencyResultTTL).Err()
}
