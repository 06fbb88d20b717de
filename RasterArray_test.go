package Goraster

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func testArray(t *testing.T) (*RasterArray, []int16) {
	t.Helper()
	meta := testMetadata(t)
	data := make([]int16, meta.Shape().Size())
	for i := range data {
		data[i] = int16(i)
	}
	buf, err := NewBuffer(data, 1, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewRasterArray(buf, meta)
	if err != nil {
		t.Fatal(err)
	}
	return arr, data
}

func TestNewRasterArrayNoCopy(t *testing.T) {
	meta := testMetadata(t)
	buf, err := NewBuffer(make([]int16, 100), 1, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	arr, err := NewRasterArray(buf, meta)
	if err != nil {
		t.Fatal(err)
	}
	if arr.Buffer() != buf {
		t.Fatal("expected the buffer to be stored without copying")
	}
	if arr.Metadata() != meta {
		t.Fatal("expected the metadata to be stored without copying")
	}
}

func TestNewRasterArrayShapeMismatch(t *testing.T) {
	meta := testMetadata(t) // declares (1, 10, 10)
	buf, err := NewBuffer(make([]int16, 25), 1, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewRasterArray(buf, meta)
	var serr *ShapeError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if serr.Got != (Shape{1, 5, 5}) || serr.Want != (Shape{1, 10, 10}) {
		t.Fatalf("unexpected shapes in error: %v", serr)
	}
	// 两个形状都要能在错误信息中辨认出来
	msg := err.Error()
	if !strings.Contains(msg, "(1, 5, 5)") || !strings.Contains(msg, "(1, 10, 10)") {
		t.Fatalf("both shapes should appear in %q", msg)
	}
}

func TestNewRasterArrayDTypeMismatch(t *testing.T) {
	meta := testMetadata(t) // declares int16
	buf, err := NewBuffer(make([]float32, 100), 1, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewRasterArray(buf, meta)
	var derr *DTypeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DTypeError, got %v", err)
	}
	if derr.Got != DTFloat32 || derr.Want != DTInt16 {
		t.Fatalf("unexpected dtypes in error: %v", derr)
	}
}

func TestMaskScenario(t *testing.T) {
	// width=height=10, count=1, dtype=int16, nodata=-99,
	// 左上 5x5 置为 -99，掩膜应恰好在这 25 个位置为 true
	arr, data := testArray(t)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			data[r*10+c] = -99
		}
	}

	mask := arr.Mask()
	if mask.Shape() != arr.Buffer().Shape() {
		t.Fatalf("mask shape %s does not match buffer shape %s", mask.Shape(), arr.Buffer().Shape())
	}
	if got := mask.TrueCount(); got != 25 {
		t.Fatalf("expected 25 masked pixels, got %d", got)
	}
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			want := r < 5 && c < 5
			if mask.At(0, r, c) != want {
				t.Fatalf("mask at (0, %d, %d) = %v, want %v", r, c, mask.At(0, r, c), want)
			}
		}
	}
}

func TestMaskWithoutNoData(t *testing.T) {
	meta, err := testMetadata(t).Copy(MetadataUpdates{ClearNoData: true})
	if err != nil {
		t.Fatal(err)
	}
	data := make([]int16, 100)
	data[0] = -99 // nodata 未设置时该值不应被掩蔽
	buf, err := NewBuffer(data, 1, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewRasterArray(buf, meta)
	if err != nil {
		t.Fatal(err)
	}

	if got := arr.Mask().TrueCount(); got != 0 {
		t.Fatalf("expected all-false mask, got %d true bits", got)
	}
}

func TestMaskNaNNoData(t *testing.T) {
	meta, err := NewRasterMetadata("EPSG:4326", 1, 3, 1, DTFloat64, NoData(math.NaN()), IdentityTransform())
	if err != nil {
		t.Fatal(err)
	}
	buf, err := NewBuffer([]float64{1, math.NaN(), 3}, 1, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewRasterArray(buf, meta)
	if err != nil {
		t.Fatal(err)
	}

	mask := arr.Mask()
	if mask.TrueCount() != 1 || !mask.At(0, 0, 1) {
		t.Fatalf("expected only the NaN pixel masked, got %v", mask.Bits())
	}
}

func TestMaskedTriple(t *testing.T) {
	arr, data := testArray(t)
	data[3] = -99

	masked := arr.Masked()
	if masked.Data != arr.Buffer() {
		t.Fatal("masked data should alias the buffer")
	}
	if masked.Fill == nil || *masked.Fill != -99 {
		t.Fatalf("expected fill value -99, got %v", masked.Fill)
	}
	if !masked.Mask.At(0, 0, 3) {
		t.Fatal("expected pixel 3 to be masked")
	}
}

func TestBandSelection(t *testing.T) {
	// 100 个元素 reshape 成 (4, 5, 5)，band(3) 应原样返回第三个 5x5 切片
	meta, err := testMetadata(t).Copy(MetadataUpdates{Count: 4, Width: 5, Height: 5})
	if err != nil {
		t.Fatal(err)
	}
	data := make([]int16, 100)
	for i := range data {
		data[i] = int16(i)
	}
	buf, err := NewBuffer(data, 4, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewRasterArray(buf, meta)
	if err != nil {
		t.Fatal(err)
	}

	band, err := arr.Band(3)
	if err != nil {
		t.Fatal(err)
	}
	if band.Height() != 5 || band.Width() != 5 {
		t.Fatalf("unexpected band size (%d, %d)", band.Height(), band.Width())
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := buf.Value(2, r, c)
			if got := band.Value(r, c); got != want {
				t.Fatalf("band value at (%d, %d) = %v, want %v", r, c, got, want)
			}
		}
	}
}

func TestBandAliasesBuffer(t *testing.T) {
	arr, data := testArray(t)

	band, err := arr.Band(1)
	if err != nil {
		t.Fatal(err)
	}
	view, err := BandData[int16](band)
	if err != nil {
		t.Fatal(err)
	}

	data[42] = 12345
	if view[42] != 12345 {
		t.Fatal("band view should alias the parent buffer")
	}
}

func TestBandIndexOutOfRange(t *testing.T) {
	arr, _ := testArray(t)

	for _, i := range []int{0, -1, 2, 99} {
		_, err := arr.Band(i)
		var berr *BandIndexError
		if !errors.As(err, &berr) {
			t.Fatalf("Band(%d): expected BandIndexError, got %v", i, err)
		}
		if berr.Index != i || berr.Count != 1 {
			t.Fatalf("unexpected error contents: %v", berr)
		}
		if _, err := arr.BandMasked(i); !errors.As(err, &berr) {
			t.Fatalf("BandMasked(%d): expected BandIndexError, got %v", i, err)
		}
	}
}

func TestBandMasked(t *testing.T) {
	arr, data := testArray(t)
	data[7] = -99

	mb, err := arr.BandMasked(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(mb.Mask) != 100 {
		t.Fatalf("unexpected mask length %d", len(mb.Mask))
	}
	if !mb.Mask[7] {
		t.Fatal("expected pixel 7 masked")
	}
	if mb.Fill == nil || *mb.Fill != -99 {
		t.Fatalf("expected fill value -99, got %v", mb.Fill)
	}
}

// fakeCodec 用于测试 FromRaster 的校验和错误包装
type fakeCodec struct {
	buffer   *Buffer
	metadata *RasterMetadata
	err      error
}

func (c *fakeCodec) Decode(source string) (*Buffer, *RasterMetadata, error) {
	return c.buffer, c.metadata, c.err
}

func (c *fakeCodec) Encode(path string, arr *RasterArray) error { return nil }

func TestFromRaster(t *testing.T) {
	meta := testMetadata(t)
	buf, err := NewBuffer(make([]int16, 100), 1, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	arr, err := FromRaster(&fakeCodec{buffer: buf, metadata: meta}, "test.tif")
	if err != nil {
		t.Fatal(err)
	}
	if arr.Buffer() != buf {
		t.Fatal("expected decoded buffer to be stored without copying")
	}
}

func TestFromRasterWrapsDecodeFailure(t *testing.T) {
	cause := fmt.Errorf("corrupt header")
	_, err := FromRaster(&fakeCodec{err: cause}, "broken.tif")

	var rerr *SourceReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected SourceReadError, got %v", err)
	}
	if rerr.Source != "broken.tif" || !errors.Is(err, cause) {
		t.Fatalf("unexpected wrapped error: %v", rerr)
	}
}

func TestFromRasterRevalidates(t *testing.T) {
	meta := testMetadata(t)
	buf, err := NewBuffer(make([]int16, 25), 1, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	_, err = FromRaster(&fakeCodec{buffer: buf, metadata: meta}, "test.tif")
	var serr *ShapeError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ShapeError from codec output validation, got %v", err)
	}
}
