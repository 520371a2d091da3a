package pricebook

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/plise/internal/pricing"
	"github.com/Simplici0/plise/internal/seed"
)

// SQLiteStore keeps the price book in the price_book singleton row.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the singleton row, seeding it with the defaults first if needed.
func (s *SQLiteStore) Load() (pricing.PriceBook, error) {
	if _, err := seed.Run(s.db, pricing.DefaultPriceBook()); err != nil {
		return pricing.PriceBook{}, err
	}

	var b pricing.PriceBook
	err := s.db.QueryRow(`
		SELECT
			aluminum_white, aluminum_painted, aluminum_wood,
			fabric_price, strip_price, wheel_price, clip_price, stop_price, return_price,
			corner_classic, corner_wide, corner_slim,
			profit_classic, profit_wide, profit_slim,
			profit_percent, labor_percent, vat_percent
		FROM price_book
		WHERE id = 1
	`).Scan(
		&b.Aluminum.White,
		&b.Aluminum.Painted,
		&b.Aluminum.Wood,
		&b.FabricPrice,
		&b.StripPrice,
		&b.WheelPrice,
		&b.ClipPrice,
		&b.StopPrice,
		&b.ReturnPrice,
		&b.CornerPrice.Classic,
		&b.CornerPrice.Wide,
		&b.CornerPrice.Slim,
		&b.ProductProfit.Classic,
		&b.ProductProfit.Wide,
		&b.ProductProfit.Slim,
		&b.ProfitPercent,
		&b.LaborPercent,
		&b.VATPercent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.PriceBook{}, fmt.Errorf("price_book singleton not found")
		}
		return pricing.PriceBook{}, fmt.Errorf("query price_book: %w", err)
	}
	return b, nil
}

// Save overwrites the singleton row.
func (s *SQLiteStore) Save(b pricing.PriceBook) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, err := seed.Run(s.db, b); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE price_book
		SET
			aluminum_white = ?,
			aluminum_painted = ?,
			aluminum_wood = ?,
			fabric_price = ?,
			strip_price = ?,
			wheel_price = ?,
			clip_price = ?,
			stop_price = ?,
			return_price = ?,
			corner_classic = ?,
			corner_wide = ?,
			corner_slim = ?,
			profit_classic = ?,
			profit_wide = ?,
			profit_slim = ?,
			profit_percent = ?,
			labor_percent = ?,
			vat_percent = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`,
		b.Aluminum.White,
		b.Aluminum.Painted,
		b.Aluminum.Wood,
		b.FabricPrice,
		b.StripPrice,
		b.WheelPrice,
		b.ClipPrice,
		b.StopPrice,
		b.ReturnPrice,
		b.CornerPrice.Classic,
		b.CornerPrice.Wide,
		b.CornerPrice.Slim,
		b.ProductProfit.Classic,
		b.ProductProfit.Wide,
		b.ProductProfit.Slim,
		b.ProfitPercent,
		b.LaborPercent,
		b.VATPercent,
	)
	if err != nil {
		return fmt.Errorf("update price_book: %w", err)
	}
	return nil
}
