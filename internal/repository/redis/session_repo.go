package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dropx-tech/marketplace-backend/internal/cfg"
	"github.com/dropx-tech/marketplace-backend/pkg/clients"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SessionRepo хранит сессии пользователей в Redis: токен → id пользователя.
// Сессии создаёт внешний auth-сервис, здесь они только читаются.
type SessionRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewSessionRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *SessionRepo {
	return &SessionRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// ResolveUserID возвращает id пользователя по сессионному токену и продлевает
// TTL сессии. Неизвестный токен неотличим от протухшего.
func (s *SessionRepo) ResolveUserID(ctx context.Context, token string) (int64, error) {
	key := s.sessionKey(token)

	value, err := s.client.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return 0, e.Wrap(whereami.WhereAmI(), e.ErrUnauthorized)
		}
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		s.logger.Warnf("malformed session value for key %s: %v", key, err)
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrUnauthorized)
	}

	// Скользящее продление: ошибка не фатальна для запроса
	if err := s.client.Client.Expire(ctx, key, s.cfg.SessionTTL).Err(); err != nil {
		s.logger.Warnf("failed to refresh session TTL: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return userID, nil
}

func (s *SessionRepo) sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
