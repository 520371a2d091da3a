package plise

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestSetName_ResetsCoefficientsAndKeepsColor(t *testing.T) {
	cases := []struct {
		name  ProductName
		frame float64
		sash  float64
	}{
		{Classic, 2.2, 2.4},
		{Wide, 3.204, 2.4},
		{Slim, 1.314, 2.070},
	}

	for _, tc := range cases {
		pt := NewProductType(Classic, Wood)
		pt.SetName(tc.name)

		if pt.Name() != tc.name {
			t.Fatalf("name = %q, want %q", pt.Name(), tc.name)
		}
		if pt.Color() != Wood {
			t.Fatalf("%s: color changed to %q", tc.name, pt.Color())
		}
		if pt.FrameCoefficient() != tc.frame || pt.SashCoefficient() != tc.sash {
			t.Fatalf("%s: coefficients = %v/%v, want %v/%v", tc.name, pt.FrameCoefficient(), pt.SashCoefficient(), tc.frame, tc.sash)
		}
		nearlyEqual(t, string(tc.name)+" frameWeight", pt.FrameWeight(), tc.frame/6)
		nearlyEqual(t, string(tc.name)+" sashWeight", pt.SashWeight(), tc.sash/6)
	}
}

func TestSetName_UnknownNameIsIgnored(t *testing.T) {
	pt := NewProductType(Wide, Painted)
	pt.SetName("mesh")

	if pt.Name() != Wide || pt.FrameCoefficient() != 3.204 {
		t.Fatalf("unexpected product type after unknown name: %+v", pt)
	}
}

func TestSetColor_OnlyChangesColor(t *testing.T) {
	pt := NewProductType(Slim, White)
	pt.SetColor(Painted)

	if pt.Color() != Painted {
		t.Fatalf("color = %q, want %q", pt.Color(), Painted)
	}
	if pt.Name() != Slim || pt.FrameCoefficient() != 1.314 || pt.SashCoefficient() != 2.070 {
		t.Fatalf("SetColor touched the product: %+v", pt)
	}
}

func TestParseNames(t *testing.T) {
	if n, err := ParseProductName(" Wide "); err != nil || n != Wide {
		t.Fatalf("ParseProductName = %q, %v", n, err)
	}
	if _, err := ParseProductName("mesh"); err == nil {
		t.Fatalf("expected error for unknown product")
	}
	if c, err := ParseColorName("WOOD"); err != nil || c != Wood {
		t.Fatalf("ParseColorName = %q, %v", c, err)
	}
	if _, err := ParseColorName("black"); err == nil {
		t.Fatalf("expected error for unknown color")
	}
}

func TestQuantities_ClassicWhiteSmall(t *testing.T) {
	line := NewOrderLine(NewProductType(Classic, White), 100, 100)
	q := line.Quantities()

	want := Quantities{
		FrameLength: 143,
		SashLength:  37,
		FabricArea:  10000,
		StripLength: 190,
		Corners:     4,
		Wheels:      2,
		Clips:       4,
		Stops:       2,
		Returns:     2,
	}
	if q != want {
		t.Fatalf("quantities = %+v, want %+v", q, want)
	}
}

func TestQuantities_WideLarge(t *testing.T) {
	line := NewOrderLine(NewProductType(Wide, White), 200, 100)
	q := line.Quantities()

	nearlyEqual(t, "frame", q.FrameLength, 315)
	nearlyEqual(t, "sash", q.SashLength, 74)
	nearlyEqual(t, "fabric", q.FabricArea, 20000)
	nearlyEqual(t, "strip", q.StripLength, 380)
}

func TestQuantities_SlimRoundsLengths(t *testing.T) {
	line := NewOrderLine(NewProductType(Slim, Wood), 100, 120)

	nearlyEqual(t, "frame", line.FrameLength(), 94)
	nearlyEqual(t, "sash", line.SashLength(), 39)
}

func TestHardwareCounts_SwitchAtWidthThreshold(t *testing.T) {
	for _, w := range []float64{1, 40, 149, 149.99} {
		line := NewOrderLine(DefaultProductType(), w, 100)
		if line.WheelCount() != 2 || line.ClipCount() != 4 || line.StopCount() != 2 || line.ReturnCount() != 2 {
			t.Fatalf("w=%v: unexpected small-band counts %+v", w, line.Quantities())
		}
		if line.CornerCount() != 4 {
			t.Fatalf("w=%v: corners = %d", w, line.CornerCount())
		}
	}

	for _, w := range []float64{150, 150.01, 300, 500} {
		line := NewOrderLine(DefaultProductType(), w, 100)
		if line.WheelCount() != 4 || line.ClipCount() != 8 || line.StopCount() != 4 || line.ReturnCount() != 0 {
			t.Fatalf("w=%v: unexpected large-band counts %+v", w, line.Quantities())
		}
		if line.CornerCount() != 4 {
			t.Fatalf("w=%v: corners = %d", w, line.CornerCount())
		}
	}
}

func TestSashAndStrip_DoubleFromThreshold(t *testing.T) {
	small := NewOrderLine(DefaultProductType(), 149, 108)
	large := NewOrderLine(DefaultProductType(), 150, 108)

	nearlyEqual(t, "small sash", small.SashLength(), 40)
	nearlyEqual(t, "large sash", large.SashLength(), 80)
	nearlyEqual(t, "small strip", small.StripLength(), 206)
	nearlyEqual(t, "large strip", large.StripLength(), 412)
}

func TestValidateDimensions(t *testing.T) {
	if err := ValidateDimensions(100, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tc := range []struct{ w, h float64 }{
		{0, 100},
		{100, -1},
		{501, 100},
		{math.NaN(), 100},
		{100, math.Inf(1)},
	} {
		err := ValidateDimensions(tc.w, tc.h)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("ValidateDimensions(%v, %v) = %v, want ErrInvalidDimension", tc.w, tc.h, err)
		}
	}
}

func TestOrderLineJSON_UsesTableCoefficients(t *testing.T) {
	line := NewOrderLine(NewProductType(Slim, Painted), 120.5, 80)

	raw, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded OrderLine
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != line {
		t.Fatalf("decoded = %+v, want %+v", decoded, line)
	}

	if err := json.Unmarshal([]byte(`{"product":"mesh","color":"white","width_cm":1,"height_cm":1}`), &decoded); err == nil {
		t.Fatalf("expected error for unknown product")
	}
}
