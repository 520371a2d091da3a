package quotes

import (
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/plise/internal/db"
	"github.com/Simplici0/plise/internal/plise"
	"github.com/Simplici0/plise/internal/pricing"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	database, err := db.OpenMigrated(filepath.Join(t.TempDir(), "quotes.db"))
	if err != nil {
		t.Fatalf("open migrated db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return NewStore(database), database
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		parsed, _ := time.Parse(createdAtLayout, ts)
		return parsed
	}
}

func sampleLines() []plise.OrderLine {
	return []plise.OrderLine{
		plise.NewOrderLine(plise.NewProductType(plise.Classic, plise.White), 100, 100),
		plise.NewOrderLine(plise.NewProductType(plise.Wide, plise.Wood), 180, 220),
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	created, err := store.Create("  Ayse Yilmaz ", "balcony", sampleLines(), pricing.DefaultPriceBook(), pricing.ProfitFlat)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == 0 || created.Reference == "" {
		t.Fatalf("expected id and reference, got %+v", created)
	}
	if created.Client != "Ayse Yilmaz" {
		t.Fatalf("client not trimmed: %q", created.Client)
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Reference != created.Reference || got.Client != created.Client || got.Notes != "balcony" {
		t.Fatalf("unexpected quote header: %+v", got)
	}
	if got.Totals != created.Totals {
		t.Fatalf("totals = %+v, want %+v", got.Totals, created.Totals)
	}
	if got.PriceBook != pricing.DefaultPriceBook() {
		t.Fatalf("price book snapshot not restored: %+v", got.PriceBook)
	}
	if len(got.Lines) != 2 || got.Lines[1] != sampleLines()[1] {
		t.Fatalf("lines not restored: %+v", got.Lines)
	}
}

func TestGetReadsSnapshotWithoutRecalculation(t *testing.T) {
	store, database := newTestStore(t)

	_, err := database.Exec(`
		INSERT INTO quotes (id, reference, created_at, client, notes, profit_policy, lines_json, totals_json, price_book_json)
		VALUES (
			1,
			'ref-1',
			'2024-02-01 14:00:00',
			'Demo',
			'deliver in 48h',
			'flat',
			'[{"product":"classic","color":"white","width_cm":100,"height_cm":100}]',
			'{"cost":123.45,"price":148.14,"price_with_vat":999.99}',
			'{"aluminum":{"white":1,"painted":1,"wood":1}}'
		)
	`)
	if err != nil {
		t.Fatalf("seed quote: %v", err)
	}

	got, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Totals.Cost != 123.45 || got.Totals.PriceWithVAT != 999.99 {
		t.Fatalf("expected snapshot totals, got %+v", got.Totals)
	}
	if got.PriceBook.Aluminum.White != 1 {
		t.Fatalf("expected snapshot price book, got %+v", got.PriceBook)
	}
}

func TestGetMissingQuote(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByDateDescAndReadsTotal(t *testing.T) {
	store, _ := newTestStore(t)
	book := pricing.DefaultPriceBook()

	for _, c := range []struct{ ts, client string }{
		{"2024-01-01 10:00:00", "First"},
		{"2024-01-03 12:00:00", "Third"},
		{"2024-01-02 11:00:00", "Second"},
	} {
		store.now = fixedClock(c.ts)
		if _, err := store.Create(c.client, "", sampleLines()[:1], book, pricing.ProfitFlat); err != nil {
			t.Fatalf("Create(%s): %v", c.client, err)
		}
	}

	items, err := store.List("")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(items))
	}
	if items[0].Client != "Third" || items[1].Client != "Second" || items[2].Client != "First" {
		t.Fatalf("quotes are not sorted desc by created_at: %+v", items)
	}

	want := 349.31 * 1.2 * 1.2
	if math.Abs(items[0].Total-want) > 1e-9 {
		t.Fatalf("total = %v, want %v", items[0].Total, want)
	}
}

func TestListFiltersByClientAndNotes(t *testing.T) {
	store, _ := newTestStore(t)
	book := pricing.DefaultPriceBook()

	for _, c := range []struct{ client, notes string }{
		{"Home", "red frame"},
		{"Office", "vip client"},
		{"Villa", "urgent for home"},
	} {
		if _, err := store.Create(c.client, c.notes, sampleLines(), book, pricing.ProfitFlat); err != nil {
			t.Fatalf("Create(%s): %v", c.client, err)
		}
	}

	byClient, err := store.List("Offi")
	if err != nil {
		t.Fatalf("List client filter returned error: %v", err)
	}
	if len(byClient) != 1 || byClient[0].Client != "Office" {
		t.Fatalf("expected 1 quote filtered by client, got %+v", byClient)
	}

	byNotes, err := store.List("home")
	if err != nil {
		t.Fatalf("List notes filter returned error: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 quotes filtered by client/notes, got %+v", byNotes)
	}
}

func TestExtractTotalFromJSON(t *testing.T) {
	if got := extractTotalFromJSON(`{"price":10,"price_with_vat":12}`); got != 12 {
		t.Fatalf("got %v, want 12", got)
	}
	if got := extractTotalFromJSON(`{"price":10}`); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
	if got := extractTotalFromJSON(`nope`); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
