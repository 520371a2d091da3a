package plise

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	// LargeWidthCM is the width at and above which a screen uses the double
	// sash and the large hardware set.
	LargeWidthCM = 150.0

	// MaxDimensionCM bounds accepted input dimensions.
	MaxDimensionCM = 500.0

	cornerCount = 4
)

var ErrInvalidDimension = errors.New("invalid dimension")

// OrderLine is one ordered screen unit.
type OrderLine struct {
	Type     ProductType
	WidthCM  float64
	HeightCM float64
}

// Quantities are the materials consumed by one line. Lengths are in cm and
// the fabric area in cm², all rounded to whole units.
type Quantities struct {
	FrameLength float64 `json:"frame_cm"`
	SashLength  float64 `json:"sash_cm"`
	FabricArea  float64 `json:"fabric_cm2"`
	StripLength float64 `json:"strip_cm"`
	Corners     int     `json:"corners"`
	Wheels      int     `json:"wheels"`
	Clips       int     `json:"clips"`
	Stops       int     `json:"stops"`
	Returns     int     `json:"returns"`
}

// NewOrderLine returns a line of the given size and type.
func NewOrderLine(t ProductType, widthCM, heightCM float64) OrderLine {
	return OrderLine{Type: t, WidthCM: widthCM, HeightCM: heightCM}
}

// DefaultOrderLine returns a 40x40 white classic screen.
func DefaultOrderLine() OrderLine {
	return NewOrderLine(DefaultProductType(), 40, 40)
}

// ValidateDimensions checks input dimensions at the boundary. The quantity
// formulas themselves accept any positive value.
func ValidateDimensions(widthCM, heightCM float64) error {
	for _, d := range []struct {
		name  string
		value float64
	}{{"width", widthCM}, {"height", heightCM}} {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidDimension, d.name)
		}
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be greater than 0", ErrInvalidDimension, d.name)
		}
		if d.value > MaxDimensionCM {
			return fmt.Errorf("%w: %s must be at most %.0f cm", ErrInvalidDimension, d.name, MaxDimensionCM)
		}
	}
	return nil
}

// IsLarge reports whether the line falls in the wide band (width >= 150).
func (l OrderLine) IsLarge() bool {
	return l.WidthCM >= LargeWidthCM
}

func (l OrderLine) FrameLength() float64 {
	return math.Round(2 * (l.WidthCM + l.HeightCM - 5) * l.Type.FrameWeight())
}

func (l OrderLine) SashLength() float64 {
	v := (l.HeightCM - 8) * l.Type.SashWeight()
	if l.IsLarge() {
		v *= 2
	}
	return math.Round(v)
}

func (l OrderLine) FabricArea() float64 {
	return math.Round(l.WidthCM * l.HeightCM)
}

func (l OrderLine) StripLength() float64 {
	if l.IsLarge() {
		return math.Round(4 * (l.HeightCM - 5))
	}
	return math.Round(2 * (l.HeightCM - 5))
}

func (l OrderLine) CornerCount() int { return cornerCount }

func (l OrderLine) WheelCount() int {
	if l.IsLarge() {
		return 4
	}
	return 2
}

func (l OrderLine) ClipCount() int {
	if l.IsLarge() {
		return 8
	}
	return 4
}

func (l OrderLine) StopCount() int {
	if l.IsLarge() {
		return 4
	}
	return 2
}

func (l OrderLine) ReturnCount() int {
	if l.IsLarge() {
		return 0
	}
	return 2
}

// Quantities derives every material quantity of the line.
func (l OrderLine) Quantities() Quantities {
	return Quantities{
		FrameLength: l.FrameLength(),
		SashLength:  l.SashLength(),
		FabricArea:  l.FabricArea(),
		StripLength: l.StripLength(),
		Corners:     l.CornerCount(),
		Wheels:      l.WheelCount(),
		Clips:       l.ClipCount(),
		Stops:       l.StopCount(),
		Returns:     l.ReturnCount(),
	}
}

type orderLineJSON struct {
	Product  ProductName `json:"product"`
	Color    ColorName   `json:"color"`
	WidthCM  float64     `json:"width_cm"`
	HeightCM float64     `json:"height_cm"`
}

func (l OrderLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderLineJSON{
		Product:  l.Type.Name(),
		Color:    l.Type.Color(),
		WidthCM:  l.WidthCM,
		HeightCM: l.HeightCM,
	})
}

// UnmarshalJSON restores a line; the coefficients always come from the
// product table, never from the payload.
func (l *OrderLine) UnmarshalJSON(data []byte) error {
	var raw orderLineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Product.Valid() {
		return fmt.Errorf("unknown product %q", raw.Product)
	}
	if !raw.Color.Valid() {
		return fmt.Errorf("unknown color %q", raw.Color)
	}
	*l = NewOrderLine(NewProductType(raw.Product, raw.Color), raw.WidthCM, raw.HeightCM)
	return nil
}
