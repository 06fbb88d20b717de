// RasterArray.go
package Goraster

import (
	"fmt"
	"math"
)

// RasterArray 带元数据的三维像素缓冲区。
// 构造时校验缓冲区与元数据的形状和数据类型一致，之后不再变更；
// 任何变换都应生成新的 RasterArray 和重新校验过的元数据。
// 派生属性 (Mask/Masked) 每次调用即时计算，不做缓存。
type RasterArray struct {
	buffer   *Buffer
	metadata *RasterMetadata
}

// NewRasterArray 构造 RasterArray，缓冲区与元数据不一致时立即失败。
// 成功时直接持有传入的缓冲区和元数据，不拷贝不转换。
func NewRasterArray(buffer *Buffer, metadata *RasterMetadata) (*RasterArray, error) {
	if buffer == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrRank)
	}
	if metadata == nil {
		return nil, &ValidationError{Field: "metadata", Reason: "nil metadata"}
	}
	if buffer.Shape() != metadata.Shape() {
		return nil, &ShapeError{Got: buffer.Shape(), Want: metadata.Shape()}
	}
	if buffer.DType() != metadata.DType() {
		return nil, &DTypeError{Got: buffer.DType(), Want: metadata.DType()}
	}
	return &RasterArray{buffer: buffer, metadata: metadata}, nil
}

// Buffer 底层像素缓冲区
func (ra *RasterArray) Buffer() *Buffer { return ra.buffer }

// Metadata 描述元数据
func (ra *RasterArray) Metadata() *RasterMetadata { return ra.metadata }

// Mask 与缓冲区同形状的有效性掩膜。
// 设置了 nodata 时，值等于 nodata 的位置为 true (NaN nodata 匹配 NaN 像素)；
// 未设置 nodata 时全为 false。单次逐元素比较，每次调用重新计算。
func (ra *RasterArray) Mask() *Mask {
	shape := ra.buffer.Shape()
	bits := make([]bool, shape.Size())
	if nodata, ok := ra.metadata.NoData(); ok {
		fillMask(ra.buffer, nodata, bits)
	}
	return &Mask{shape: shape, bits: bits}
}

// Masked 数据/掩膜/填充值三元组，可直接用于 nodata 感知的计算，
// 不修改缓冲区和掩膜本身。
func (ra *RasterArray) Masked() *MaskedArray {
	ma := &MaskedArray{Data: ra.buffer, Mask: ra.Mask()}
	if nodata, ok := ra.metadata.NoData(); ok {
		ma.Fill = NoData(nodata)
	}
	return ma
}

// Band 返回第 i 个波段 (1 基，与 rasterio 波段编号一致) 的二维只读视图。
// 视图与父缓冲区共享存储，不拷贝；通过父缓冲区切片的写入会反映到视图中。
func (ra *RasterArray) Band(i int) (BandView, error) {
	count := ra.metadata.Count()
	if i < 1 || i > count {
		return BandView{}, &BandIndexError{Index: i, Count: count}
	}
	shape := ra.buffer.Shape()
	return BandView{
		dtype:  ra.buffer.DType(),
		height: shape.Height(),
		width:  shape.Width(),
		data:   ra.buffer.bandSlice(i - 1),
	}, nil
}

// BandMasked 返回波段视图与对应掩膜切片的组合，索引检查与 Band 相同
func (ra *RasterArray) BandMasked(i int) (MaskedBand, error) {
	view, err := ra.Band(i)
	if err != nil {
		return MaskedBand{}, err
	}
	mb := MaskedBand{Band: view, Mask: ra.Mask().Band(i - 1)}
	if nodata, ok := ra.metadata.NoData(); ok {
		mb.Fill = NoData(nodata)
	}
	return mb, nil
}

// Mask 三维布尔掩膜，true 表示对应像素无有效测量值
type Mask struct {
	shape Shape
	bits  []bool
}

func (m *Mask) Shape() Shape { return m.shape }

// Bits 平铺的布尔切片，行主序
func (m *Mask) Bits() []bool { return m.bits }

// At 按 (band, row, col) 读取掩膜位，索引从 0 开始
func (m *Mask) At(band, row, col int) bool {
	return m.bits[(band*m.shape.Height()+row)*m.shape.Width()+col]
}

// Band 第 band 个波段 (0 基) 的掩膜子切片
func (m *Mask) Band(band int) []bool {
	n := m.shape.Height() * m.shape.Width()
	return m.bits[band*n : (band+1)*n : (band+1)*n]
}

// TrueCount 被掩蔽的像素总数
func (m *Mask) TrueCount() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// MaskedArray 数据/掩膜/填充值三元组
type MaskedArray struct {
	Data *Buffer
	Mask *Mask
	Fill *float64
}

// MaskedBand 单波段的数据/掩膜/填充值组合
type MaskedBand struct {
	Band BandView
	Mask []bool
	Fill *float64
}

// BandView 单波段的二维只读视图，与父缓冲区共享存储
type BandView struct {
	dtype  DType
	height int
	width  int
	data   any
}

func (v BandView) DType() DType { return v.dtype }
func (v BandView) Height() int  { return v.height }
func (v BandView) Width() int   { return v.width }

// Data 底层平铺切片，类型为 []T，与父缓冲区别名
func (v BandView) Data() any { return v.data }

// Value 按 (row, col) 读取像素值，索引从 0 开始
func (v BandView) Value(row, col int) float64 {
	if row < 0 || row >= v.height || col < 0 || col >= v.width {
		panic(fmt.Sprintf("Goraster: index (%d, %d) out of range for band (%d, %d)", row, col, v.height, v.width))
	}
	i := row*v.width + col
	switch data := v.data.(type) {
	case []uint8:
		return float64(data[i])
	case []int8:
		return float64(data[i])
	case []uint16:
		return float64(data[i])
	case []int16:
		return float64(data[i])
	case []uint32:
		return float64(data[i])
	case []int32:
		return float64(data[i])
	case []float32:
		return float64(data[i])
	case []float64:
		return data[i]
	}
	panic(fmt.Sprintf("Goraster: corrupt band dtype %s", v.dtype))
}

// BandData 取出波段视图的底层切片，类型不匹配时报 DTypeError
func BandData[T Pixel](v BandView) ([]T, error) {
	data, ok := v.data.([]T)
	if !ok {
		return nil, &DTypeError{Got: dtypeOf[T](), Want: v.dtype}
	}
	return data, nil
}

// fillMask 逐元素比较填充掩膜位，nodata 已在元数据校验中保证可被精确表示
func fillMask(buf *Buffer, nodata float64, bits []bool) {
	switch data := buf.data.(type) {
	case []uint8:
		maskEqual(data, uint8(nodata), bits)
	case []int8:
		maskEqual(data, int8(nodata), bits)
	case []uint16:
		maskEqual(data, uint16(nodata), bits)
	case []int16:
		maskEqual(data, int16(nodata), bits)
	case []uint32:
		maskEqual(data, uint32(nodata), bits)
	case []int32:
		maskEqual(data, int32(nodata), bits)
	case []float32:
		if math.IsNaN(nodata) {
			for i, v := range data {
				bits[i] = math.IsNaN(float64(v))
			}
			return
		}
		maskEqual(data, float32(nodata), bits)
	case []float64:
		if math.IsNaN(nodata) {
			for i, v := range data {
				bits[i] = math.IsNaN(v)
			}
			return
		}
		maskEqual(data, nodata, bits)
	}
}

func maskEqual[T Pixel](data []T, nodata T, bits []bool) {
	for i, v := range data {
		bits[i] = v == nodata
	}
}
