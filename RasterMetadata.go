// RasterMetadata.go
package Goraster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// RasterMetadata 不可变的栅格描述记录。
// 构造后所有字段只读，唯一的修改途径是 Copy，返回重新校验过的新实例。
type RasterMetadata struct {
	crs       string
	count     int
	width     int
	height    int
	dtype     DType
	nodata    *float64
	transform Affine
}

// NoData 便捷构造 nodata 标量
func NoData(v float64) *float64 { return &v }

// NewRasterMetadata 构造并校验栅格元数据
func NewRasterMetadata(crs string, count, width, height int, dtype DType, nodata *float64, transform Affine) (*RasterMetadata, error) {
	crs, err := EnsureCRS(crs)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, &ValidationError{Field: "count", Reason: fmt.Sprintf("band count %d must be at least 1", count)}
	}
	if width <= 0 {
		return nil, &ValidationError{Field: "width", Reason: fmt.Sprintf("width %d must be positive", width)}
	}
	if height <= 0 {
		return nil, &ValidationError{Field: "height", Reason: fmt.Sprintf("height %d must be positive", height)}
	}
	if _, ok := dtypeNames[dtype]; !ok {
		return nil, &ValidationError{Field: "dtype", Reason: fmt.Sprintf("unsupported dtype %s", dtype)}
	}
	if nodata != nil && !dtype.CanRepresent(*nodata) {
		return nil, &ValidationError{
			Field:  "nodata",
			Reason: fmt.Sprintf("value %v is not representable in dtype %s", *nodata, dtype),
		}
	}

	meta := &RasterMetadata{
		crs:       crs,
		count:     count,
		width:     width,
		height:    height,
		dtype:     dtype,
		transform: transform,
	}
	if nodata != nil {
		v := *nodata
		meta.nodata = &v
	}
	return meta, nil
}

func (m *RasterMetadata) CRS() string       { return m.crs }
func (m *RasterMetadata) Count() int        { return m.count }
func (m *RasterMetadata) Width() int        { return m.width }
func (m *RasterMetadata) Height() int       { return m.height }
func (m *RasterMetadata) DType() DType      { return m.dtype }
func (m *RasterMetadata) Transform() Affine { return m.transform }

// NoData 返回 nodata 标量，ok 为 false 时表示未设置
func (m *RasterMetadata) NoData() (value float64, ok bool) {
	if m.nodata == nil {
		return 0, false
	}
	return *m.nodata, true
}

// Shape 栅格形状 (count, height, width)
func (m *RasterMetadata) Shape() Shape {
	return Shape{m.count, m.height, m.width}
}

// Bounds 栅格覆盖的世界范围
func (m *RasterMetadata) Bounds() orb.Bound {
	return m.transform.Bounds(m.width, m.height)
}

// MetadataUpdates 零值字段表示保持不变
type MetadataUpdates struct {
	CRS         string
	Count       int
	Width       int
	Height      int
	DType       DType
	NoData      *float64
	ClearNoData bool // 置 true 时清除 nodata 设置
	Transform   *Affine
}

// Copy 按给定覆盖项生成新实例，所有不变量重新校验，原实例不受影响
func (m *RasterMetadata) Copy(updates MetadataUpdates) (*RasterMetadata, error) {
	crs := m.crs
	if updates.CRS != "" {
		crs = updates.CRS
	}
	count := m.count
	if updates.Count != 0 {
		count = updates.Count
	}
	width := m.width
	if updates.Width != 0 {
		width = updates.Width
	}
	height := m.height
	if updates.Height != 0 {
		height = updates.Height
	}
	dtype := m.dtype
	if updates.DType != DTUnknown {
		dtype = updates.DType
	}
	nodata := m.nodata
	if updates.ClearNoData {
		nodata = nil
	} else if updates.NoData != nil {
		nodata = updates.NoData
	}
	transform := m.transform
	if updates.Transform != nil {
		transform = *updates.Transform
	}
	return NewRasterMetadata(crs, count, width, height, dtype, nodata, transform)
}

func (m *RasterMetadata) String() string {
	nodata := "nil"
	if m.nodata != nil {
		if math.IsNaN(*m.nodata) {
			nodata = "NaN"
		} else {
			nodata = fmt.Sprintf("%v", *m.nodata)
		}
	}
	return fmt.Sprintf("RasterMetadata(crs=%s, count=%d, width=%d, height=%d, dtype=%s, nodata=%s, transform=%v)",
		m.crs, m.count, m.width, m.height, m.dtype, nodata, m.transform)
}
