package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"gorm.io/gorm"
)

// storeFault hides a database error behind the generic unexpected reason
func storeFault(op string, err error) error {
	return apierrors.Unexpected(fmt.Errorf("%s: %w", op, err))
}

// notFoundOr maps gorm.ErrRecordNotFound to notFound and anything else to a store fault
func notFoundOr(notFound error, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return storeFault(op, err)
}

// txError normalizes an error returned from a transaction. Errors raised
// inside the callback already carry a kind; anything else came from the store.
func txError(op string, err error) error {
	var appErr *apierrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return storeFault(op, err)
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func containsUint64(values []uint64, v uint64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
