package pricing

import (
	"errors"
	"fmt"

	"github.com/Simplici0/plise/internal/plise"
)

var ErrInvalidPriceBook = errors.New("invalid price book")

// ColorPrices holds one value per profile color.
type ColorPrices struct {
	White   float64 `json:"white"`
	Painted float64 `json:"painted"`
	Wood    float64 `json:"wood"`
}

// For returns the value for c, or 0 for an unknown color.
func (p ColorPrices) For(c plise.ColorName) float64 {
	switch c {
	case plise.White:
		return p.White
	case plise.Painted:
		return p.Painted
	case plise.Wood:
		return p.Wood
	default:
		return 0
	}
}

// ProductValues holds one value per product.
type ProductValues struct {
	Classic float64 `json:"classic"`
	Wide    float64 `json:"wide"`
	Slim    float64 `json:"slim"`
}

// For returns the value for n, or 0 for an unknown product.
func (p ProductValues) For(n plise.ProductName) float64 {
	switch n {
	case plise.Classic:
		return p.Classic
	case plise.Wide:
		return p.Wide
	case plise.Slim:
		return p.Slim
	default:
		return 0
	}
}

// PriceBook contains every tunable unit price and percentage.
//
// Aluminum prices are per metre of profile, fabric per square metre and strip
// per metre; hardware prices are per piece.
type PriceBook struct {
	Aluminum      ColorPrices   `json:"aluminum"`
	FabricPrice   float64       `json:"fabric"`
	StripPrice    float64       `json:"strip"`
	WheelPrice    float64       `json:"wheel"`
	ClipPrice     float64       `json:"clip"`
	StopPrice     float64       `json:"stop"`
	ReturnPrice   float64       `json:"return"`
	CornerPrice   ProductValues `json:"corner"`
	ProductProfit ProductValues `json:"product_profit_percent"`
	ProfitPercent float64       `json:"profit_percent"`
	LaborPercent  float64       `json:"labor_percent"`
	VATPercent    float64       `json:"vat_percent"`
}

// DefaultPriceBook returns the built-in prices used on first run.
func DefaultPriceBook() PriceBook {
	return PriceBook{
		Aluminum:      ColorPrices{White: 120, Painted: 130, Wood: 140},
		FabricPrice:   30,
		StripPrice:    3,
		WheelPrice:    2.5,
		ClipPrice:     1,
		StopPrice:     1,
		ReturnPrice:   1,
		CornerPrice:   ProductValues{Classic: 1, Wide: 1, Slim: 4.5},
		ProductProfit: ProductValues{Classic: 20, Wide: 20, Slim: 20},
		ProfitPercent: 20,
		LaborPercent:  30,
		VATPercent:    20,
	}
}

// Validate rejects negative prices and percentages outside 0..100.
func (b PriceBook) Validate() error {
	prices := []struct {
		field string
		value float64
	}{
		{"aluminum.white", b.Aluminum.White},
		{"aluminum.painted", b.Aluminum.Painted},
		{"aluminum.wood", b.Aluminum.Wood},
		{"fabric", b.FabricPrice},
		{"strip", b.StripPrice},
		{"wheel", b.WheelPrice},
		{"clip", b.ClipPrice},
		{"stop", b.StopPrice},
		{"return", b.ReturnPrice},
		{"corner.classic", b.CornerPrice.Classic},
		{"corner.wide", b.CornerPrice.Wide},
		{"corner.slim", b.CornerPrice.Slim},
	}
	for _, p := range prices {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidPriceBook, p.field)
		}
	}

	percents := []struct {
		field string
		value float64
	}{
		{"profit_percent", b.ProfitPercent},
		{"product_profit_percent.classic", b.ProductProfit.Classic},
		{"product_profit_percent.wide", b.ProductProfit.Wide},
		{"product_profit_percent.slim", b.ProductProfit.Slim},
		{"labor_percent", b.LaborPercent},
		{"vat_percent", b.VATPercent},
	}
	for _, p := range percents {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidPriceBook, p.field)
		}
	}

	return nil
}

// Field is one editable entry of a price book. Key matches the form and CLI
// name of the entry.
type Field struct {
	Key     string
	Percent bool
	Value   *float64
}

// Fields lists the entries of b in display order. Values point into b.
func (b *PriceBook) Fields() []Field {
	return []Field{
		{Key: "aluminum_white", Value: &b.Aluminum.White},
		{Key: "aluminum_painted", Value: &b.Aluminum.Painted},
		{Key: "aluminum_wood", Value: &b.Aluminum.Wood},
		{Key: "fabric", Value: &b.FabricPrice},
		{Key: "strip", Value: &b.StripPrice},
		{Key: "wheel", Value: &b.WheelPrice},
		{Key: "clip", Value: &b.ClipPrice},
		{Key: "stop", Value: &b.StopPrice},
		{Key: "return", Value: &b.ReturnPrice},
		{Key: "corner_classic", Value: &b.CornerPrice.Classic},
		{Key: "corner_wide", Value: &b.CornerPrice.Wide},
		{Key: "corner_slim", Value: &b.CornerPrice.Slim},
		{Key: "labor_percent", Percent: true, Value: &b.LaborPercent},
		{Key: "profit_percent", Percent: true, Value: &b.ProfitPercent},
		{Key: "vat_percent", Percent: true, Value: &b.VATPercent},
		{Key: "profit_classic", Percent: true, Value: &b.ProductProfit.Classic},
		{Key: "profit_wide", Percent: true, Value: &b.ProductProfit.Wide},
		{Key: "profit_slim", Percent: true, Value: &b.ProductProfit.Slim},
	}
}

// Field returns the entry named key.
func (b *PriceBook) Field(key string) (Field, bool) {
	for _, f := range b.Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
