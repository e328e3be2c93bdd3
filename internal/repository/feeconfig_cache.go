package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/repayflow/plan-engine/internal/domain"
)

// cachedFeeConfigRepository is a read-through Redis cache in front of the
// database-backed repository. Cache failures degrade to plain DB reads;
// they never fail a request.
type cachedFeeConfigRepository struct {
	inner FeeConfigRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedFeeConfigRepository(inner FeeConfigRepository, redisClient *redis.Client, ttl time.Duration) FeeConfigRepository {
	return &cachedFeeConfigRepository{
		inner: inner,
		redis: redisClient,
		ttl:   ttl,
	}
}

func feeConfigCacheKey(organizationID string) string {
	return fmt.Sprintf("feeconfig:%s", organizationID)
}

func (r *cachedFeeConfigRepository) GetByOrganizationID(ctx context.Context, organizationID string) (*domain.FeeConfiguration, error) {
	key := feeConfigCacheKey(organizationID)

	cached, err := r.redis.Get(ctx, key).Result()
	if err == nil {
		var config domain.FeeConfiguration
		if unmarshalErr := json.Unmarshal([]byte(cached), &config); unmarshalErr == nil {
			return &config, nil
		}
		// Corrupt entry; fall through to the database and rewrite it.
	} else if err != redis.Nil {
		log.Printf("fee config cache read failed for %s: %v", organizationID, err)
	}

	config, err := r.inner.GetByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(config); marshalErr == nil {
		if setErr := r.redis.Set(ctx, key, payload, r.ttl).Err(); setErr != nil {
			log.Printf("fee config cache write failed for %s: %v", organizationID, setErr)
		}
	}

	return config, nil
}
