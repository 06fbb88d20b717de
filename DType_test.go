package Goraster

import (
	"math"
	"testing"
)

func TestParseDType(t *testing.T) {
	for d, name := range dtypeNames {
		parsed, err := ParseDType(name)
		if err != nil {
			t.Fatal(err)
		}
		if parsed != d {
			t.Fatalf("%s parsed to %s", name, parsed)
		}
	}

	if _, err := ParseDType("complex64"); err == nil {
		t.Fatal("expected error for unsupported dtype")
	}
}

func TestDTypeSize(t *testing.T) {
	cases := map[DType]int{
		DTUint8: 1, DTInt8: 1,
		DTUint16: 2, DTInt16: 2,
		DTUint32: 4, DTInt32: 4,
		DTFloat32: 4, DTFloat64: 8,
	}
	for d, want := range cases {
		if got := d.Size(); got != want {
			t.Fatalf("%s: size %d, want %d", d, got, want)
		}
	}
}

func TestCanRepresent(t *testing.T) {
	cases := []struct {
		dtype DType
		value float64
		ok    bool
	}{
		{DTInt16, -99, true},
		{DTInt16, -99.5, false},
		{DTInt16, 40000, false},
		{DTInt16, math.NaN(), false},
		{DTUint8, -1, false},
		{DTUint8, 255, true},
		{DTUint8, 256, false},
		{DTFloat32, math.NaN(), true},
		{DTFloat32, -99, true},
		{DTFloat32, math.MaxFloat64, false},
		{DTFloat64, math.MaxFloat64, true},
	}
	for _, c := range cases {
		if got := c.dtype.CanRepresent(c.value); got != c.ok {
			t.Fatalf("%s.CanRepresent(%v) = %v, want %v", c.dtype, c.value, got, c.ok)
		}
	}
}
