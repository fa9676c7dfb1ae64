package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"walletgate/internal/auth/models"
)

const (
	challengeKeyPrefix = "challenge:"
	principalKeyPrefix = "challenge_principal:"
)

// consumeScript flips the consumed flag exactly once. Returns:
//
//	-1 when the key does not exist
//	 0 when the challenge was already consumed
//	 1 when this caller consumed it
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return -1
end
local ch = cjson.decode(raw)
if ch.consumed then
	return 0
end
ch.consumed = true
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
	redis.call("SET", KEYS[1], cjson.encode(ch), "PX", ttl)
else
	redis.call("SET", KEYS[1], cjson.encode(ch))
end
return 1
`)

// challengeJSON is the JSON-serializable representation of a Challenge.
type challengeJSON struct {
	Token        string `json:"token"`
	Principal    string `json:"principal"`
	Code         string `json:"code"`
	Flow         string `json:"flow"`
	DirectoryRef string `json:"directory_ref,omitempty"`
	Secret       string `json:"secret,omitempty"`
	Fingerprint  string `json:"fingerprint,omitempty"`
	CreatedAt    int64  `json:"created_at"`  // Unix nano
	ExpiresAt    int64  `json:"expires_at"`  // Unix nano
	Consumed     bool   `json:"consumed"`
}

// RedisStore keeps challenges in Redis with a TTL matching their expiry, so
// expired challenges age out without an explicit sweeper.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed challenge store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func challengeKey(token string) string {
	return challengeKeyPrefix + token
}

func principalKey(principal string, flow models.Flow) string {
	return principalKeyPrefix + string(flow) + ":" + principal
}

func (s *RedisStore) Create(ctx context.Context, ch *models.Challenge) error {
	raw, err := json.Marshal(challengeJSON{
		Token:        ch.Token,
		Principal:    ch.Principal,
		Code:         ch.Code,
		Flow:         string(ch.Flow),
		DirectoryRef: ch.DirectoryRef,
		Secret:       ch.Secret,
		Fingerprint:  ch.Fingerprint,
		CreatedAt:    ch.CreatedAt.UnixNano(),
		ExpiresAt:    ch.ExpiresAt.UnixNano(),
		Consumed:     ch.Consumed,
	})
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, challengeKey(ch.Token), raw, ttl)
	pipe.SAdd(ctx, principalKey(ch.Principal, ch.Flow), ch.Token)
	pipe.Expire(ctx, principalKey(ch.Principal, ch.Flow), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByToken(ctx context.Context, token string) (*models.Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	var j challengeJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &models.Challenge{
		Token:        j.Token,
		Principal:    j.Principal,
		Code:         j.Code,
		Flow:         models.Flow(j.Flow),
		DirectoryRef: j.DirectoryRef,
		Secret:       j.Secret,
		Fingerprint:  j.Fingerprint,
		CreatedAt:    time.Unix(0, j.CreatedAt),
		ExpiresAt:    time.Unix(0, j.ExpiresAt),
		Consumed:     j.Consumed,
	}, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) error {
	res, err := consumeScript.Run(ctx, s.client, []string{challengeKey(token)}).Int()
	if err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	switch res {
	case -1:
		return ErrNotFound
	case 0:
		return ErrAlreadyConsumed
	default:
		return nil
	}
}

func (s *RedisStore) InvalidateByPrincipal(ctx context.Context, principal string, flow models.Flow) error {
	key := principalKey(principal, flow)
	tokens, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("list principal challenges: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, challengeKey(token))
	}
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate principal challenges: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op for Redis; key TTLs already enforce expiry.
func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

var _ Store = (*RedisStore)(nil)
