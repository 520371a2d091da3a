// Package quotes stores priced orders together with the price book they were
// priced with, so a saved quote never changes when prices are updated.
package quotes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/plise/internal/plise"
	"github.com/Simplici0/plise/internal/pricing"
)

var ErrNotFound = errors.New("quote not found")

const createdAtLayout = "2006-01-02 15:04:05"

// Quote is a saved, priced order.
type Quote struct {
	ID        int64
	Reference string
	CreatedAt string
	Client    string
	Notes     string
	Policy    pricing.ProfitPolicy
	Lines     []plise.OrderLine
	Totals    pricing.Totals
	PriceBook pricing.PriceBook
}

// Result re-prices the quote lines with the snapshot price book.
func (q Quote) Result() pricing.Result {
	return pricing.Calculate(q.Lines, q.PriceBook, q.Policy)
}

// ListItem is the summary row shown in quote lists.
type ListItem struct {
	ID        int64
	Reference string
	CreatedAt string
	Client    string
	Total     float64
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create prices lines with book and stores the quote snapshot.
func (s *Store) Create(client, notes string, lines []plise.OrderLine, book pricing.PriceBook, policy pricing.ProfitPolicy) (Quote, error) {
	q := Quote{
		Reference: uuid.NewString(),
		CreatedAt: s.now().UTC().Format(createdAtLayout),
		Client:    strings.TrimSpace(client),
		Notes:     strings.TrimSpace(notes),
		Policy:    policy,
		Lines:     lines,
		Totals:    pricing.Calculate(lines, book, policy).Totals,
		PriceBook: book,
	}

	linesJSON, err := json.Marshal(q.Lines)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote lines: %w", err)
	}
	totalsJSON, err := json.Marshal(q.Totals)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote totals: %w", err)
	}
	bookJSON, err := json.Marshal(q.PriceBook)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote price book: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO quotes (reference, created_at, client, notes, profit_policy, lines_json, totals_json, price_book_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, q.Reference, q.CreatedAt, q.Client, q.Notes, string(q.Policy), string(linesJSON), string(totalsJSON), string(bookJSON))
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	q.ID, err = result.LastInsertId()
	if err != nil {
		return Quote{}, fmt.Errorf("read quote id: %w", err)
	}
	return q, nil
}

// Get reads a stored quote as it was saved, without recalculation.
func (s *Store) Get(id int64) (Quote, error) {
	var (
		q          Quote
		policy     string
		linesJSON  string
		totalsJSON string
		bookJSON   string
	)
	err := s.db.QueryRow(`
		SELECT id, reference, created_at, COALESCE(client, ''), COALESCE(notes, ''), profit_policy, lines_json, totals_json, price_book_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.Reference, &q.CreatedAt, &q.Client, &q.Notes, &policy, &linesJSON, &totalsJSON, &bookJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}

	q.Policy, err = pricing.ParseProfitPolicy(policy)
	if err != nil {
		return Quote{}, fmt.Errorf("decode quote %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(linesJSON), &q.Lines); err != nil {
		return Quote{}, fmt.Errorf("decode quote %d lines: %w", id, err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &q.Totals); err != nil {
		return Quote{}, fmt.Errorf("decode quote %d totals: %w", id, err)
	}
	if err := json.Unmarshal([]byte(bookJSON), &q.PriceBook); err != nil {
		return Quote{}, fmt.Errorf("decode quote %d price book: %w", id, err)
	}
	return q, nil
}

// List returns quotes newest first. A non-empty query filters on client and
// notes.
func (s *Store) List(query string) ([]ListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			reference,
			created_at,
			COALESCE(client, ''),
			totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(client, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var item ListItem
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.Reference, &item.CreatedAt, &item.Client, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Total = extractTotalFromJSON(totalsJSON)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return items, nil
}

// extractTotalFromJSON reads the customer-facing total of a totals snapshot.
// Snapshots without VAT fall back to the net price.
func extractTotalFromJSON(totalsJSON string) float64 {
	var values map[string]float64
	if err := json.Unmarshal([]byte(totalsJSON), &values); err != nil {
		return 0
	}

	for _, key := range []string{"price_with_vat", "price"} {
		if total, ok := values[key]; ok {
			return total
		}
	}

	return 0
}
