package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/Simplici0/plise/internal/plise"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func classicWhite(w, h float64) plise.OrderLine {
	return plise.NewOrderLine(plise.NewProductType(plise.Classic, plise.White), w, h)
}

func TestLineCost_ClassicWhiteDefaultBook(t *testing.T) {
	result := PriceLine(classicWhite(100, 100), DefaultPriceBook())

	nearlyEqual(t, "frame", result.Breakdown.Frame, 171.6)
	nearlyEqual(t, "sash", result.Breakdown.Sash, 44.4)
	nearlyEqual(t, "fabric", result.Breakdown.Fabric, 30)
	nearlyEqual(t, "strip", result.Breakdown.Strip, 5.7)
	nearlyEqual(t, "corners", result.Breakdown.Corners, 4)
	nearlyEqual(t, "wheels", result.Breakdown.Wheels, 5)
	nearlyEqual(t, "clips", result.Breakdown.Clips, 4)
	nearlyEqual(t, "stops", result.Breakdown.Stops, 2)
	nearlyEqual(t, "returns", result.Breakdown.Returns, 2)
	nearlyEqual(t, "materials", result.Breakdown.Materials(), 268.7)
	nearlyEqual(t, "cost", result.Cost, 349.31)
	nearlyEqual(t, "labor", result.Labor, 80.61)
	nearlyEqual(t, "LineCost", LineCost(classicWhite(100, 100), DefaultPriceBook()), 349.31)
}

func TestLineCost_UsesColorAndCornerPrices(t *testing.T) {
	book := DefaultPriceBook()
	line := plise.NewOrderLine(plise.NewProductType(plise.Slim, plise.Wood), 100, 100)

	result := PriceLine(line, book)

	nearlyEqual(t, "frame", result.Breakdown.Frame, result.Quantities.FrameLength*140/100)
	nearlyEqual(t, "corners", result.Breakdown.Corners, 4*4.5)
}

func TestLineCost_NonDecreasingInWidthAndHeight(t *testing.T) {
	book := DefaultPriceBook()
	for _, name := range plise.ProductNames {
		for _, color := range plise.ColorNames {
			pt := plise.NewProductType(name, color)

			prev := 0.0
			for w := 10.0; w <= 500; w += 7 {
				cost := LineCost(plise.NewOrderLine(pt, w, 120), book)
				if cost < prev {
					t.Fatalf("%s/%s: cost decreased at w=%v: %v < %v", name, color, w, cost, prev)
				}
				prev = cost
			}

			prev = 0.0
			for h := 10.0; h <= 500; h += 7 {
				cost := LineCost(plise.NewOrderLine(pt, 120, h), book)
				if cost < prev {
					t.Fatalf("%s/%s: cost decreased at h=%v: %v < %v", name, color, h, cost, prev)
				}
				prev = cost
			}
		}
	}
}

func TestOrderTotals_EmptyOrderIsZero(t *testing.T) {
	totals := OrderTotals(nil, DefaultPriceBook())
	if totals != (Totals{}) {
		t.Fatalf("totals = %+v, want zero", totals)
	}

	lines := []plise.OrderLine{classicWhite(100, 100), classicWhite(200, 200)}
	if got := OrderTotals(lines[:0], DefaultPriceBook()); got != (Totals{}) {
		t.Fatalf("totals for lines[:0] = %+v, want zero", got)
	}
}

func TestOrderTotals_FlatProfitOnGrandTotal(t *testing.T) {
	book := DefaultPriceBook()
	lines := []plise.OrderLine{
		classicWhite(100, 100),
		plise.NewOrderLine(plise.NewProductType(plise.Wide, plise.Painted), 200, 180),
	}

	totals := OrderTotals(lines, book)

	cost := LineCost(lines[0], book) + LineCost(lines[1], book)
	nearlyEqual(t, "cost", totals.Cost, cost)
	nearlyEqual(t, "price", totals.Price, cost*1.2)
	nearlyEqual(t, "priceWithVAT", totals.PriceWithVAT, cost*1.2*1.2)
}

func TestOrderTotals_OnlyPassedLinesParticipate(t *testing.T) {
	book := DefaultPriceBook()
	lines := []plise.OrderLine{classicWhite(100, 100), classicWhite(300, 300), classicWhite(400, 400)}

	totals := OrderTotals(lines[:1], book)

	nearlyEqual(t, "cost", totals.Cost, 349.31)
	nearlyEqual(t, "price", totals.Price, 349.31*1.2)
}

func TestCalculate_PerProductProfit(t *testing.T) {
	book := DefaultPriceBook()
	book.ProductProfit = ProductValues{Classic: 10, Wide: 50, Slim: 0}
	book.ProfitPercent = 99

	lines := []plise.OrderLine{
		classicWhite(100, 100),
		plise.NewOrderLine(plise.NewProductType(plise.Wide, plise.White), 100, 100),
	}

	result := Calculate(lines, book, ProfitPerProduct)

	c0 := LineCost(lines[0], book)
	c1 := LineCost(lines[1], book)
	nearlyEqual(t, "cost", result.Totals.Cost, c0+c1)
	nearlyEqual(t, "price", result.Totals.Price, c0*1.1+c1*1.5)
	nearlyEqual(t, "priceWithVAT", result.Totals.PriceWithVAT, (c0*1.1+c1*1.5)*1.2)
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 line results, got %d", len(result.Lines))
	}
}

func TestParseProfitPolicy(t *testing.T) {
	for raw, want := range map[string]ProfitPolicy{"": ProfitFlat, "FLAT": ProfitFlat, "per_product": ProfitPerProduct} {
		got, err := ParseProfitPolicy(raw)
		if err != nil || got != want {
			t.Fatalf("ParseProfitPolicy(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseProfitPolicy("per_line"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestPriceBookValidate(t *testing.T) {
	if err := DefaultPriceBook().Validate(); err != nil {
		t.Fatalf("default book invalid: %v", err)
	}

	negative := DefaultPriceBook()
	negative.Aluminum.Wood = -1
	if err := negative.Validate(); !errors.Is(err, ErrInvalidPriceBook) {
		t.Fatalf("expected ErrInvalidPriceBook, got %v", err)
	}

	tooMuchVAT := DefaultPriceBook()
	tooMuchVAT.VATPercent = 101
	if err := tooMuchVAT.Validate(); !errors.Is(err, ErrInvalidPriceBook) {
		t.Fatalf("expected ErrInvalidPriceBook, got %v", err)
	}
}

func TestPriceBookFieldsPointIntoBook(t *testing.T) {
	book := DefaultPriceBook()

	f, ok := book.Field("corner_slim")
	if !ok {
		t.Fatal("corner_slim field not found")
	}
	*f.Value = 7
	nearlyEqual(t, "corner slim", book.CornerPrice.Slim, 7)

	vat, ok := book.Field("vat_percent")
	if !ok || !vat.Percent {
		t.Fatalf("vat_percent should be a percent field, got %+v", vat)
	}
	if _, ok := book.Field("unknown"); ok {
		t.Fatal("unexpected field for unknown key")
	}
	if got := len(book.Fields()); got != 18 {
		t.Fatalf("expected 18 fields, got %d", got)
	}
}
