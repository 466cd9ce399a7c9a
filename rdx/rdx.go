package rdx

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

// Connect builds a Redis client from REDIS_URL / REDIS_PASSWORD and
// verifies the connection.
func Connect(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
