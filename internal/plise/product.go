package plise

import (
	"fmt"
	"strings"
)

// ProductName identifies a screen model. It selects the frame/sash weight
// coefficients, the corner unit price and the product profit percentage.
type ProductName string

const (
	Classic ProductName = "classic"
	Wide    ProductName = "wide"
	Slim    ProductName = "slim"
)

// ColorName identifies the profile finish. It selects the aluminum unit price.
type ColorName string

const (
	White   ColorName = "white"
	Painted ColorName = "painted"
	Wood    ColorName = "wood"
)

// ProductNames lists every product in display order.
var ProductNames = []ProductName{Classic, Wide, Slim}

// ColorNames lists every color in display order.
var ColorNames = []ColorName{White, Painted, Wood}

// coefficients holds the stored weight coefficients of a product. Stored
// values are six times the effective weight.
type coefficients struct {
	frame float64
	sash  float64
}

var coefficientTable = map[ProductName]coefficients{
	Classic: {frame: 2.2, sash: 2.4},
	Wide:    {frame: 3.204, sash: 2.4},
	Slim:    {frame: 1.314, sash: 2.070},
}

const coefficientScale = 6.0

// Valid reports whether n is one of the known products.
func (n ProductName) Valid() bool {
	_, ok := coefficientTable[n]
	return ok
}

// Label returns the display name of the product.
func (n ProductName) Label() string {
	switch n {
	case Classic:
		return "Classic"
	case Wide:
		return "Wide"
	case Slim:
		return "Slim"
	default:
		return string(n)
	}
}

// Valid reports whether c is one of the known colors.
func (c ColorName) Valid() bool {
	switch c {
	case White, Painted, Wood:
		return true
	default:
		return false
	}
}

// Label returns the display name of the color.
func (c ColorName) Label() string {
	switch c {
	case White:
		return "White"
	case Painted:
		return "Painted"
	case Wood:
		return "Wood"
	default:
		return string(c)
	}
}

// ParseProductName parses a product name case-insensitively.
func ParseProductName(raw string) (ProductName, error) {
	n := ProductName(strings.ToLower(strings.TrimSpace(raw)))
	if !n.Valid() {
		return "", fmt.Errorf("unknown product %q (want classic, wide or slim)", raw)
	}
	return n, nil
}

// ParseColorName parses a color name case-insensitively.
func ParseColorName(raw string) (ColorName, error) {
	c := ColorName(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown color %q (want white, painted or wood)", raw)
	}
	return c, nil
}

// ProductType is the per-unit configuration of a screen.
type ProductType struct {
	name      ProductName
	color     ColorName
	frameCoef float64
	sashCoef  float64
}

// DefaultProductType returns a white classic screen.
func DefaultProductType() ProductType {
	return NewProductType(Classic, White)
}

// NewProductType returns a product type with the table coefficients for name.
func NewProductType(name ProductName, color ColorName) ProductType {
	t := ProductType{name: Classic, color: color}
	t.SetName(name)
	if t.frameCoef == 0 {
		t.SetName(Classic)
	}
	return t
}

// SetName switches the product and resets both coefficients to the table
// entry for name. Unknown names leave t unchanged.
func (t *ProductType) SetName(name ProductName) {
	c, ok := coefficientTable[name]
	if !ok {
		return
	}
	t.name = name
	t.frameCoef = c.frame
	t.sashCoef = c.sash
}

// SetColor changes the color only.
func (t *ProductType) SetColor(color ColorName) {
	t.color = color
}

func (t ProductType) Name() ProductName { return t.name }

func (t ProductType) Color() ColorName { return t.color }

// FrameCoefficient returns the stored (six-times) frame coefficient.
func (t ProductType) FrameCoefficient() float64 { return t.frameCoef }

// SashCoefficient returns the stored (six-times) sash coefficient.
func (t ProductType) SashCoefficient() float64 { return t.sashCoef }

// FrameWeight returns the effective frame weight per centimetre.
func (t ProductType) FrameWeight() float64 {
	return t.frameCoef / coefficientScale
}

// SashWeight returns the effective sash weight per centimetre.
func (t ProductType) SashWeight() float64 {
	return t.sashCoef / coefficientScale
}
