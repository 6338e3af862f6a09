package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hcsdev/hcs-manager/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrEmptySlice  = errors.New("slice cannot be empty")
	ErrInvalidItem = errors.New("invalid item")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItems validates a slice of inventory items before insertion.
func validateItems(items []model.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items", ErrEmptySlice)
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("item at index %d: %w: missing name", i, ErrInvalidItem)
		}
		if it.BuyPrice.IsNegative() {
			return fmt.Errorf("item at index %d: %w: negative buy price", i, ErrInvalidItem)
		}
	}
	return nil
}
