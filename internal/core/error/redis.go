package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to the unified error type.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return NotFound()
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Store(err)
}
