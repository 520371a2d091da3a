package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Simplici0/plise/internal/plise"
)

// parseLineSpec parses "WxH[:type[:color]]", e.g. "180x220:wide:wood".
// Type and color default to classic and white.
func parseLineSpec(raw string) (plise.OrderLine, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 3 {
		return plise.OrderLine{}, fmt.Errorf("line %q: expected WxH[:type[:color]]", raw)
	}

	size := strings.Split(strings.ToLower(parts[0]), "x")
	if len(size) != 2 {
		return plise.OrderLine{}, fmt.Errorf("line %q: size must be WxH", raw)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(size[0]), 64)
	if err != nil {
		return plise.OrderLine{}, fmt.Errorf("line %q: width must be numeric", raw)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(size[1]), 64)
	if err != nil {
		return plise.OrderLine{}, fmt.Errorf("line %q: height must be numeric", raw)
	}
	if err := plise.ValidateDimensions(width, height); err != nil {
		return plise.OrderLine{}, fmt.Errorf("line %q: %w", raw, err)
	}

	pt := plise.DefaultProductType()
	if len(parts) > 1 && parts[1] != "" {
		name, err := plise.ParseProductName(parts[1])
		if err != nil {
			return plise.OrderLine{}, fmt.Errorf("line %q: %w", raw, err)
		}
		pt.SetName(name)
	}
	if len(parts) > 2 && parts[2] != "" {
		color, err := plise.ParseColorName(parts[2])
		if err != nil {
			return plise.OrderLine{}, fmt.Errorf("line %q: %w", raw, err)
		}
		pt.SetColor(color)
	}

	return plise.NewOrderLine(pt, width, height), nil
}

func parseLineSpecs(raw []string) ([]plise.OrderLine, error) {
	lines := make([]plise.OrderLine, 0, len(raw))
	for _, r := range raw {
		line, err := parseLineSpec(r)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
