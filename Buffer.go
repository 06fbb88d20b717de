// Buffer.go
package Goraster

import (
	"fmt"
)

// Shape 栅格形状 (count, height, width)
type Shape [3]int

func (s Shape) Count() int  { return s[0] }
func (s Shape) Height() int { return s[1] }
func (s Shape) Width() int  { return s[2] }

// Size 形状展开后的元素总数
func (s Shape) Size() int { return s[0] * s[1] * s[2] }

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s[0], s[1], s[2])
}

// Pixel 受支持的像素标量类型
type Pixel interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | float32 | float64
}

// Buffer 显式三维 (band, row, column) 像素缓冲区。
// 数据按行主序平铺存放，类型标签在构造时固定，替代动态形状推断。
type Buffer struct {
	dtype DType
	shape Shape
	data  any // 平铺切片，长度等于 shape.Size()
}

// NewBuffer 用平铺切片构造三维缓冲区，等价于 reshape 操作。
// 切片长度必须恰好等于 count*height*width，不做拷贝。
func NewBuffer[T Pixel](data []T, count, height, width int) (*Buffer, error) {
	if count < 1 || height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: invalid dimensions (%d, %d, %d)", ErrRank, count, height, width)
	}
	shape := Shape{count, height, width}
	if len(data) != shape.Size() {
		return nil, &ValidationError{
			Field:  "data",
			Reason: fmt.Sprintf("length %d cannot be reshaped to %s", len(data), shape),
		}
	}
	return &Buffer{dtype: dtypeOf[T](), shape: shape, data: data}, nil
}

// NewBufferOf 按给定类型和形状分配零值缓冲区
func NewBufferOf(dtype DType, count, height, width int) (*Buffer, error) {
	if count < 1 || height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: invalid dimensions (%d, %d, %d)", ErrRank, count, height, width)
	}
	n := count * height * width
	var data any
	switch dtype {
	case DTUint8:
		data = make([]uint8, n)
	case DTInt8:
		data = make([]int8, n)
	case DTUint16:
		data = make([]uint16, n)
	case DTInt16:
		data = make([]int16, n)
	case DTUint32:
		data = make([]uint32, n)
	case DTInt32:
		data = make([]int32, n)
	case DTFloat32:
		data = make([]float32, n)
	case DTFloat64:
		data = make([]float64, n)
	default:
		return nil, &ValidationError{Field: "dtype", Reason: fmt.Sprintf("unsupported dtype %s", dtype)}
	}
	return &Buffer{dtype: dtype, shape: Shape{count, height, width}, data: data}, nil
}

func dtypeOf[T Pixel]() DType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return DTUint8
	case int8:
		return DTInt8
	case uint16:
		return DTUint16
	case int16:
		return DTInt16
	case uint32:
		return DTUint32
	case int32:
		return DTInt32
	case float32:
		return DTFloat32
	case float64:
		return DTFloat64
	}
	return DTUnknown
}

// DType 缓冲区数据类型
func (b *Buffer) DType() DType { return b.dtype }

// Shape 缓冲区形状
func (b *Buffer) Shape() Shape { return b.shape }

// Len 元素总数
func (b *Buffer) Len() int { return b.shape.Size() }

// Data 底层平铺切片，类型为 []T
func (b *Buffer) Data() any { return b.data }

// BufferData 取出底层平铺切片，类型不匹配时报 DTypeError
func BufferData[T Pixel](b *Buffer) ([]T, error) {
	data, ok := b.data.([]T)
	if !ok {
		return nil, &DTypeError{Got: dtypeOf[T](), Want: b.dtype}
	}
	return data, nil
}

// Value 按 (band, row, column) 读取单个像素值，索引从 0 开始
func (b *Buffer) Value(band, row, col int) float64 {
	i := b.flatIndex(band, row, col)
	switch data := b.data.(type) {
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
	panic(fmt.Sprintf("Goraster: corrupt buffer dtype %s", b.dtype))
}

func (b *Buffer) flatIndex(band, row, col int) int {
	if band < 0 || band >= b.shape.Count() ||
		row < 0 || row >= b.shape.Height() ||
		col < 0 || col >= b.shape.Width() {
		panic(fmt.Sprintf("Goraster: index (%d, %d, %d) out of range for shape %s", band, row, col, b.shape))
	}
	return (band*b.shape.Height()+row)*b.shape.Width() + col
}

// bandSlice 第 band 个波段 (0 基) 的底层子切片，与父缓冲区共享存储
func (b *Buffer) bandSlice(band int) any {
	n := b.shape.Height() * b.shape.Width()
	lo, hi := band*n, (band+1)*n
	switch data := b.data.(type) {
	case []uint8:
		return data[lo:hi:hi]
	case []int8:
		return data[lo:hi:hi]
	case []uint16:
		return data[lo:hi:hi]
	case []int16:
		return data[lo:hi:hi]
	case []uint32:
		return data[lo:hi:hi]
	case []int32:
		return data[lo:hi:hi]
	case []float32:
		return data[lo:hi:hi]
	case []float64:
		return data[lo:hi:hi]
	}
	panic(fmt.Sprintf("Goraster: corrupt buffer dtype %s", b.dtype))
}
