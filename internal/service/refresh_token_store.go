package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshOwner identifica a quien se emitio un refresh token. Se guarda junto
// al jti para que un token solo pueda rotarse por el mismo usuario y rol.
type RefreshOwner struct {
	UserID int64
	Role   string
}

func (o RefreshOwner) matches(claims Claims) bool {
	return o.UserID == claims.UserID && o.Role == claims.Role
}

// encode produce el valor "uid:rol" que se guarda en Redis.
func (o RefreshOwner) encode() string {
	return strconv.FormatInt(o.UserID, 10) + ":" + o.Role
}

var errMalformedOwner = errors.New("malformed refresh owner")

func decodeRefreshOwner(raw string) (RefreshOwner, error) {
	idPart, role, ok := strings.Cut(raw, ":")
	if !ok || role == "" {
		return RefreshOwner{}, errMalformedOwner
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return RefreshOwner{}, errMalformedOwner
	}
	return RefreshOwner{UserID: id, Role: role}, nil
}

// RefreshTokenStore guarda el propietario de cada refresh token vigente por jti.
type RefreshTokenStore interface {
	Store(jti string, owner RefreshOwner, ttl time.Duration) error
	Lookup(jti string) (RefreshOwner, bool, error)
	Revoke(jti string) error
}

type refreshEntry struct {
	owner     RefreshOwner
	expiresAt time.Time
}

type memoryRefreshTokenStore struct {
	mu      sync.Mutex
	entries map[string]refreshEntry
	now     func() time.Time
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		entries: make(map[string]refreshEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryRefreshTokenStore) Store(jti string, owner RefreshOwner, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = refreshEntry{owner: owner, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryRefreshTokenStore) Lookup(jti string) (RefreshOwner, bool, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[jti]
	if !ok {
		return RefreshOwner{}, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, jti)
		return RefreshOwner{}, false, nil
	}
	return entry.owner, true, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.TrimSpace(jti))
	return nil
}

// redisKVClient es el subconjunto de *redis.Client que usa el store.
type redisKVClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRefreshTokenStore struct {
	client  redisKVClient
	prefix  string
	timeout time.Duration
}

const defaultRefreshTTL = 7 * 24 * time.Hour

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client:  client,
		prefix:  "kairos:refresh:",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisRefreshTokenStore) key(jti string) (string, bool) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", false
	}
	return s.prefix + jti, true
}

func (s *redisRefreshTokenStore) Store(jti string, owner RefreshOwner, ttl time.Duration) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, key, owner.encode(), ttl).Err()
}

// Lookup devuelve el propietario guardado. Un valor ilegible cuenta como token
// inexistente y se borra.
func (s *redisRefreshTokenStore) Lookup(jti string) (RefreshOwner, bool, error) {
	key, ok := s.key(jti)
	if !ok {
		return RefreshOwner{}, false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return RefreshOwner{}, false, nil
	}
	if err != nil {
		return RefreshOwner{}, false, err
	}
	owner, err := decodeRefreshOwner(raw)
	if err != nil {
		_ = s.client.Del(ctx, key).Err()
		return RefreshOwner{}, false, nil
	}
	return owner, true, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, key).Err()
}
