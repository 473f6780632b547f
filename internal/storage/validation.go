// Package storage provides the data persistence layer for boqflow.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stavsoft/boqflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidItem     = errors.New("invalid item")
	ErrInvalidOverride = errors.New("invalid override")
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

// validateItems ensures a batch of items is storable.
func validateItems(items []model.Item) error {
	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("%w: item at index %d has no id", ErrInvalidItem, i)
		}
		if items[i].Project == "" {
			return fmt.Errorf("%w: item %s has no project", ErrInvalidItem, items[i].ID)
		}
	}
	return nil
}

// validateOverride ensures an override entry is storable.
func validateOverride(entry *model.OverrideEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: override entry", ErrNilParameter)
	}
	if strings.TrimSpace(entry.Code) == "" {
		return fmt.Errorf("%w: empty code", ErrInvalidOverride)
	}
	if strings.TrimSpace(entry.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidOverride)
	}
	return nil
}
