// Package idempotency кэширует ответы денежных эндпоинтов по заголовку Idempotency-Key,
// чтобы повторная отправка запроса не проводила операцию дважды.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix - префикс ключей в Redis.
const KeyPrefix = "idempotency"

// ClaimTTL - сколько живёт отметка о запросе в работе, если процесс упал, не дождавшись ответа.
const ClaimTTL = time.Minute

// Response - сохранённый ответ.
type Response struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Pending сообщает, что запрос с этим ключом ещё выполняется.
func (r *Response) Pending() bool {
	return r.Status == 0
}

// Store хранит ответы по ключу. Get возвращает nil, nil, если ключа нет.
// Claim атомарно занимает свободный ключ отметкой "в работе" и возвращает false, если ключ занят.
// Save заменяет отметку готовым ответом, Release освобождает ключ для повтора.
type Store interface {
	Get(ctx context.Context, key string) (*Response, error)
	Claim(ctx context.Context, key, fingerprint string) (bool, error)
	Save(ctx context.Context, key string, resp *Response) error
	Release(ctx context.Context, key string) error
}

// RedisStore реализует Store поверх Redis.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище с заданным временем жизни записей.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get читает сохранённый ответ.
func (s *RedisStore) Get(ctx context.Context, key string) (*Response, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &resp, nil
}

// Claim занимает ключ через SETNX. Отметка живёт ClaimTTL.
func (s *RedisStore) Claim(ctx context.Context, key, fingerprint string) (bool, error) {
	data, err := json.Marshal(&Response{Fingerprint: fingerprint})
	if err != nil {
		return false, fmt.Errorf("failed to encode claim: %w", err)
	}

	ok, err := s.client.SetNX(ctx, key, data, ClaimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

// Save сохраняет готовый ответ на полный TTL.
func (s *RedisStore) Save(ctx context.Context, key string, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}

// Release удаляет ключ.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Key строит ключ хранилища для пользователя и клиентского ключа.
func Key(userID, idempotencyKey string) string {
	return KeyPrefix + ":" + userID + ":" + idempotencyKey
}
