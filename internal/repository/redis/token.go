// Package redis holds the Redis-backed token repository used by the
// forgot/reset password flow.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

const resetPrefix = "reset-token:"

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(url string) (*TokenRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &TokenRepository{client: redis.NewClient(opts)}, nil
}

func (r *TokenRepository) StoreResetToken(ctx context.Context, userID string, role model.Role, token string, ttl time.Duration) error {
	value := userID + ":" + string(role)
	if err := r.client.Set(ctx, resetPrefix+token, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (r *TokenRepository) ValidateResetToken(ctx context.Context, token string) (string, model.Role, error) {
	value, err := r.client.Get(ctx, resetPrefix+token).Result()
	if err == redis.Nil {
		return "", "", repository.ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to read reset token: %w", err)
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed reset token payload")
	}
	role, err := model.ParseRole(parts[1])
	if err != nil {
		return "", "", err
	}
	return parts[0], role, nil
}

func (r *TokenRepository) InvalidateResetToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, resetPrefix+token).Err()
}

func (r *TokenRepository) Close() error {
	return r.client.Close()
}
