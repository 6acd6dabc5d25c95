package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

// storageErr keeps domain errors as they are and marks everything else as a persistence failure.
func storageErr(op string, err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceFailed, err)
}

func validateOwner(owner domain.Owner) error {
	if err := owner.Validate(); err != nil {
		return domain.Validationf("%s", err.Error())
	}
	return nil
}
