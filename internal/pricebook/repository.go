// Package pricebook persists the price book. Implementations are
// configuration repositories: the pricing engine never reads them directly.
package pricebook

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Simplici0/plise/internal/pricing"
)

// ErrFallback marks a load that failed and was replaced by the built-in
// defaults.
var ErrFallback = errors.New("price book unavailable, using defaults")

// Repository loads and saves the price book.
type Repository interface {
	// Load returns the stored price book. On first use it stores and
	// returns the defaults.
	Load() (pricing.PriceBook, error)
	// Save replaces the stored price book.
	Save(book pricing.PriceBook) error
}

// LoadOrDefault loads the price book from repo. Any failure is logged as a
// warning and answered with the defaults; the returned error then wraps
// ErrFallback so callers can surface it without aborting.
func LoadOrDefault(repo Repository, logger *slog.Logger) (pricing.PriceBook, error) {
	book, err := repo.Load()
	if err == nil {
		err = book.Validate()
	}
	if err == nil {
		return book, nil
	}

	if logger != nil {
		logger.Warn("price book load failed, falling back to defaults", "error", err)
	}
	return pricing.DefaultPriceBook(), fmt.Errorf("%w: %w", ErrFallback, err)
}
