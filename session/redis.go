package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "gs"

const sweepBatch = 500

// Key layout:
//
//	<prefix>:tok:<token>  hash {id, user_id, expires_at, created_at}
//	<prefix>:sid:<id>     string token
//	<prefix>:usr:<user>   set of tokens owned by the user
//	<prefix>:exp          zset token -> expires_at (unix ms)

const createSessionScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "id", ARGV[2], "user_id", ARGV[3], "expires_at", ARGV[4], "created_at", ARGV[5])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("ZADD", KEYS[3], ARGV[4], ARGV[1])
redis.call("SADD", KEYS[4], ARGV[1])
return 1
`

const renewSessionScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "expires_at", ARGV[2])
redis.call("ZADD", KEYS[2], ARGV[2], ARGV[1])
return 1
`

const deleteSessionScript = `
local row = redis.call("HMGET", KEYS[1], "id", "user_id")
redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[1])
if row[2] then
  redis.call("SREM", ARGV[3] .. row[2], ARGV[1])
end
if row[1] then
  redis.call("DEL", ARGV[2] .. row[1])
  return 1
end
return 0
`

// sweepScript re-reads expires_at per candidate so a row renewed after the
// index range was taken is re-indexed instead of removed.
const sweepScript = `
local now = tonumber(ARGV[1])
local candidates = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", "(" .. ARGV[1], "LIMIT", 0, tonumber(ARGV[4]))
local removed = 0
for _, token in ipairs(candidates) do
  local key = ARGV[2] .. token
  local exp = redis.call("HGET", key, "expires_at")
  if not exp then
    redis.call("ZREM", KEYS[1], token)
  elseif tonumber(exp) < now then
    local row = redis.call("HMGET", key, "id", "user_id")
    redis.call("DEL", key)
    redis.call("ZREM", KEYS[1], token)
    if row[1] then
      redis.call("DEL", ARGV[3] .. row[1])
    end
    if row[2] then
      redis.call("SREM", ARGV[5] .. row[2], token)
    end
    removed = removed + 1
  else
    redis.call("ZADD", KEYS[1], exp, token)
  end
end
return {removed, #candidates}
`

// userSessionsScript counts live rows in a user's token set, pruning
// members whose hash is gone.
const userSessionsScript = `
local live = 0
for _, token in ipairs(redis.call("SMEMBERS", KEYS[1])) do
  if redis.call("EXISTS", ARGV[1] .. token) == 1 then
    live = live + 1
  else
    redis.call("SREM", KEYS[1], token)
  end
end
return live
`

var (
	createSessionLua = redis.NewScript(createSessionScript)
	renewSessionLua  = redis.NewScript(renewSessionScript)
	deleteSessionLua = redis.NewScript(deleteSessionScript)
	sweepLua         = redis.NewScript(sweepScript)
	userSessionsLua  = redis.NewScript(userSessionsScript)
)

// RedisStore implements Store on Redis. Owners are resolved through an
// account.Lookup since Redis cannot join against the users table.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	users  account.Lookup
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisStore returns a RedisStore. An empty prefix selects "gs".
func NewRedisStore(rdb redis.UniversalClient, prefix string, users account.Lookup, logger *slog.Logger) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{
		redis:  rdb,
		prefix: prefix,
		users:  users,
		logger: logging.Component(logger, "session_store"),
		now:    time.Now,
	}
}

func (s *RedisStore) tokenKey(token string) string { return s.prefix + ":tok:" + token }
func (s *RedisStore) idKey(id string) string       { return s.prefix + ":sid:" + id }
func (s *RedisStore) userKey(id string) string     { return s.prefix + ":usr:" + id }
func (s *RedisStore) expiryKey() string            { return s.prefix + ":exp" }

func (s *RedisStore) Create(ctx context.Context, userID, token string, expiresAt time.Time) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}

	created, err := createSessionLua.Run(ctx, s.redis,
		[]string{s.tokenKey(token), s.idKey(sess.ID), s.expiryKey(), s.userKey(userID)},
		token, sess.ID, userID, expiresAt.UnixMilli(), sess.CreatedAt.UnixMilli(),
	).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if created == 0 {
		return nil, ErrTokenConflict
	}
	return sess, nil
}

func (s *RedisStore) FetchWithUser(ctx context.Context, token string) (*Session, *account.User, error) {
	fields, err := s.redis.HGetAll(ctx, s.tokenKey(token)).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil, ErrNotFound
	}

	sess, err := decodeSession(token, fields)
	if err != nil {
		s.logger.Warn("corrupt session hash", "error", err)
		return nil, nil, ErrNotFound
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, account.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return sess, u, nil
}

func (s *RedisStore) Renew(ctx context.Context, sessionID string, expiresAt time.Time) error {
	token, err := s.redis.Get(ctx, s.idKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	renewed, err := renewSessionLua.Run(ctx, s.redis,
		[]string{s.tokenKey(token), s.expiryKey()},
		token, expiresAt.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if renewed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) DeleteByToken(ctx context.Context, token string) error {
	err := deleteSessionLua.Run(ctx, s.redis,
		[]string{s.tokenKey(token), s.expiryKey()},
		token, s.prefix+":sid:", s.prefix+":usr:",
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for {
		res, err := sweepLua.Run(ctx, s.redis,
			[]string{s.expiryKey()},
			now.UnixMilli(), s.prefix+":tok:", s.prefix+":sid:", sweepBatch, s.prefix+":usr:",
		).Int64Slice()
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if len(res) != 2 {
			return total, fmt.Errorf("%w: unexpected sweep reply", ErrUnavailable)
		}
		total += res[0]
		// Every candidate is either removed or re-indexed at or after now, so
		// a full batch always makes progress.
		if res[1] < sweepBatch {
			return total, nil
		}
	}
}

// HasUserSessions reports whether any live row belongs to userID. Wire it as
// the account store's dependents check, since Redis has no foreign key to the
// users table.
func (s *RedisStore) HasUserSessions(ctx context.Context, userID string) (bool, error) {
	live, err := userSessionsLua.Run(ctx, s.redis,
		[]string{s.userKey(userID)},
		s.prefix+":tok:",
	).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return live > 0, nil
}

func decodeSession(token string, fields map[string]string) (*Session, error) {
	id := fields["id"]
	userID := fields["user_id"]
	if id == "" || userID == "" {
		return nil, errors.New("missing id or user_id")
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expires_at: %w", err)
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	return &Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.UnixMilli(expiresAt),
		CreatedAt: time.UnixMilli(createdAt),
	}, nil
}
