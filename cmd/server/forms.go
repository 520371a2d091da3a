package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/plise/internal/plise"
	"github.com/Simplici0/plise/internal/pricing"
)

// lineRow is one screen row of the quote form, kept as typed so invalid
// input can be shown back to the user.
type lineRow struct {
	Width   string
	Height  string
	Product plise.ProductName
	Color   plise.ColorName
}

type quoteFormValues struct {
	Client string
	Notes  string
	Action string
	Rows   []lineRow
	Lines  []plise.OrderLine
}

func defaultRow() lineRow {
	l := plise.DefaultOrderLine()
	return lineRow{
		Width:   strconv.FormatFloat(l.WidthCM, 'f', -1, 64),
		Height:  strconv.FormatFloat(l.HeightCM, 'f', -1, 64),
		Product: l.Type.Name(),
		Color:   l.Type.Color(),
	}
}

// parseQuoteFormValues reads the quote form. Rows whose width and height are
// both blank are dropped. The returned values always carry the rows so the
// form can be re-rendered on error.
func parseQuoteFormValues(r *http.Request) (quoteFormValues, error) {
	values := quoteFormValues{
		Client: strings.TrimSpace(r.FormValue("client")),
		Notes:  strings.TrimSpace(r.FormValue("notes")),
		Action: r.FormValue("action"),
	}

	widths := r.Form["width"]
	heights := r.Form["height"]
	products := r.Form["product"]
	colors := r.Form["color"]
	if len(heights) != len(widths) || len(products) != len(widths) || len(colors) != len(widths) {
		return values, fmt.Errorf("every screen needs a width, height, type and color")
	}

	var firstErr error
	for i := range widths {
		row := lineRow{
			Width:   strings.TrimSpace(widths[i]),
			Height:  strings.TrimSpace(heights[i]),
			Product: plise.ProductName(products[i]),
			Color:   plise.ColorName(colors[i]),
		}
		if row.Width == "" && row.Height == "" {
			continue
		}
		values.Rows = append(values.Rows, row)

		line, err := parseLineRow(row)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("screen %d: %w", len(values.Rows), err)
			}
			continue
		}
		values.Lines = append(values.Lines, line)
	}

	if firstErr != nil {
		return values, firstErr
	}
	return values, nil
}

func parseLineRow(row lineRow) (plise.OrderLine, error) {
	product, err := plise.ParseProductName(string(row.Product))
	if err != nil {
		return plise.OrderLine{}, err
	}
	color, err := plise.ParseColorName(string(row.Color))
	if err != nil {
		return plise.OrderLine{}, err
	}

	width, err := strconv.ParseFloat(row.Width, 64)
	if err != nil {
		return plise.OrderLine{}, fmt.Errorf("width must be numeric")
	}
	height, err := strconv.ParseFloat(row.Height, 64)
	if err != nil {
		return plise.OrderLine{}, fmt.Errorf("height must be numeric")
	}
	if err := plise.ValidateDimensions(width, height); err != nil {
		return plise.OrderLine{}, err
	}

	return plise.NewOrderLine(plise.NewProductType(product, color), width, height), nil
}

func parsePriceBookForm(r *http.Request) (pricing.PriceBook, error) {
	var b pricing.PriceBook

	for _, f := range b.Fields() {
		parse := parseNonNegativeFloat
		if f.Percent {
			parse = parsePercent
		}
		v, err := parse(r.FormValue(f.Key), f.Key)
		if err != nil {
			return b, err
		}
		*f.Value = v
	}

	return b, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 100 {
		return 0, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return value, nil
}
