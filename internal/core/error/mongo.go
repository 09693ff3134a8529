package errx

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// WrapMongo maps MongoDB driver errors to the unified error type.
func WrapMongo(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound()
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Store(err)
}
