package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "medbridge-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type tokenRepository struct {
	redisClient *redis.Client
}

func NewTokenRepository(redisClient *redis.Client) domainRepo.TokenRepository {
	return &tokenRepository{redisClient: redisClient}
}

func tokenKey(kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID.String(), tokenID)
}

func (r *tokenRepository) Store(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.redisClient.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (r *tokenRepository) Exists(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) error {
	return r.redisClient.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}
