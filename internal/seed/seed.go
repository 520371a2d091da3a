package seed

import (
	"database/sql"
	"fmt"

	"github.com/Simplici0/plise/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. book is only written
// when no price book row exists yet.
func Run(db *sql.DB, book pricing.PriceBook) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensurePriceBook(tx, book, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePriceBook(tx *sql.Tx, book pricing.PriceBook, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM price_book WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check price book existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO price_book (
			id,
			aluminum_white,
			aluminum_painted,
			aluminum_wood,
			fabric_price,
			strip_price,
			wheel_price,
			clip_price,
			stop_price,
			return_price,
			corner_classic,
			corner_wide,
			corner_slim,
			profit_classic,
			profit_wide,
			profit_slim,
			profit_percent,
			labor_percent,
			vat_percent
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		book.Aluminum.White,
		book.Aluminum.Painted,
		book.Aluminum.Wood,
		book.FabricPrice,
		book.StripPrice,
		book.WheelPrice,
		book.ClipPrice,
		book.StopPrice,
		book.ReturnPrice,
		book.CornerPrice.Classic,
		book.CornerPrice.Wide,
		book.CornerPrice.Slim,
		book.ProductProfit.Classic,
		book.ProductProfit.Wide,
		book.ProductProfit.Slim,
		book.ProfitPercent,
		book.LaborPercent,
		book.VATPercent,
	); err != nil {
		return fmt.Errorf("insert price book singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
