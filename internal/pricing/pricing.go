package pricing

import (
	"fmt"
	"strings"

	"github.com/Simplici0/plise/internal/plise"
)

// ProfitPolicy selects how the profit margin is applied to an order.
type ProfitPolicy string

const (
	// ProfitFlat applies PriceBook.ProfitPercent once to the order cost.
	ProfitFlat ProfitPolicy = "flat"
	// ProfitPerProduct applies each line's product profit to that line's cost.
	ProfitPerProduct ProfitPolicy = "per_product"
)

// ParseProfitPolicy parses a policy name; empty selects ProfitFlat.
func ParseProfitPolicy(raw string) (ProfitPolicy, error) {
	switch p := ProfitPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "", ProfitFlat:
		return ProfitFlat, nil
	case ProfitPerProduct:
		return ProfitPerProduct, nil
	default:
		return "", fmt.Errorf("unknown profit policy %q (want flat or per_product)", raw)
	}
}

// Breakdown contains the cost of every material of one line before labor.
type Breakdown struct {
	Frame   float64 `json:"frame"`
	Sash    float64 `json:"sash"`
	Fabric  float64 `json:"fabric"`
	Strip   float64 `json:"strip"`
	Corners float64 `json:"corners"`
	Wheels  float64 `json:"wheels"`
	Clips   float64 `json:"clips"`
	Stops   float64 `json:"stops"`
	Returns float64 `json:"returns"`
}

// Materials sums every material cost.
func (b Breakdown) Materials() float64 {
	return b.Frame + b.Sash + b.Fabric + b.Strip + b.Corners + b.Wheels + b.Clips + b.Stops + b.Returns
}

// LineResult is the priced view of one order line.
type LineResult struct {
	Line       plise.OrderLine  `json:"line"`
	Quantities plise.Quantities `json:"quantities"`
	Breakdown  Breakdown        `json:"breakdown"`
	Labor      float64          `json:"labor"`
	Cost       float64          `json:"cost"`
}

// Totals contains the order roll-up.
type Totals struct {
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	PriceWithVAT float64 `json:"price_with_vat"`
}

// Result groups per-line results and order totals.
type Result struct {
	Lines  []LineResult `json:"lines"`
	Totals Totals       `json:"totals"`
}

// PriceLine prices a single line, labor included.
func PriceLine(line plise.OrderLine, book PriceBook) LineResult {
	q := line.Quantities()
	aluminum := book.Aluminum.For(line.Type.Color())
	corner := book.CornerPrice.For(line.Type.Name())

	b := Breakdown{
		Frame:   q.FrameLength * aluminum / 100,
		Sash:    q.SashLength * aluminum / 100,
		Fabric:  q.FabricArea * book.FabricPrice / 10000,
		Strip:   q.StripLength * book.StripPrice / 100,
		Corners: float64(q.Corners) * corner,
		Wheels:  float64(q.Wheels) * book.WheelPrice,
		Clips:   float64(q.Clips) * book.ClipPrice,
		Stops:   float64(q.Stops) * book.StopPrice,
		Returns: float64(q.Returns) * book.ReturnPrice,
	}

	materials := b.Materials()
	cost := materials * (1 + book.LaborPercent/100)

	return LineResult{
		Line:       line,
		Quantities: q,
		Breakdown:  b,
		Labor:      cost - materials,
		Cost:       cost,
	}
}

// LineCost returns the cost of one line, labor included.
func LineCost(line plise.OrderLine, book PriceBook) float64 {
	return PriceLine(line, book).Cost
}

// OrderTotals aggregates lines with the flat profit policy.
func OrderTotals(lines []plise.OrderLine, book PriceBook) Totals {
	return Calculate(lines, book, ProfitFlat).Totals
}

// Calculate prices every line and rolls the order up under policy. An empty
// order yields zero totals.
func Calculate(lines []plise.OrderLine, book PriceBook, policy ProfitPolicy) Result {
	result := Result{Lines: make([]LineResult, 0, len(lines))}

	price := 0.0
	for _, line := range lines {
		lr := PriceLine(line, book)
		result.Lines = append(result.Lines, lr)
		result.Totals.Cost += lr.Cost

		if policy == ProfitPerProduct {
			price += lr.Cost * (1 + book.ProductProfit.For(line.Type.Name())/100)
		}
	}

	if policy != ProfitPerProduct {
		price = result.Totals.Cost * (1 + book.ProfitPercent/100)
	}

	result.Totals.Price = price
	result.Totals.PriceWithVAT = price * (1 + book.VATPercent/100)
	return result
}
