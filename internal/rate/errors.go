package rate

import "errors"

var (
	// ErrRateLimited is returned when an identifier or IP has exhausted its
	// login attempt budget.
	ErrRateLimited = errors.New("too many login attempts")

	// ErrRedisUnavailable wraps transport failures talking to redis.
	ErrRedisUnavailable = errors.New("rate limiter store unavailable")
)
