package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-attendance/internal/logger"
	"ms-attendance/internal/models"
)

const sessionKeyPrefix = "session:"

// SessionCache keeps verified bearer tokens in Redis so a hot admin dashboard
// does not hit the user store on every request. Entries expire after the
// configured TTL, after which the store is consulted again.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

// Get returns the cached user for a token, or nil on a cache miss.
func (c *SessionCache) Get(ctx context.Context, token string) (*models.User, error) {
	val, err := c.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *SessionCache) Set(ctx context.Context, token string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKeyPrefix+token, data, c.ttl).Err()
}

// InitializeSessionCache sets up Redis for session caching and tests the
// connection.
func InitializeSessionCache(redisAddr string, customLogger *logger.Logger) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		if customLogger != nil {
			customLogger.Error("AUTH", "Failed to connect to Redis at "+redisAddr+": "+err.Error())
		}
		return nil, err
	}

	if customLogger != nil {
		customLogger.Info("AUTH", "Redis session cache ready at "+redisAddr)
	}
	return redisClient, nil
}
