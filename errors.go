// errors.go
package Goraster

import (
	"errors"
	"fmt"
)

// ErrRank 栅格缓冲区必须是三维的 (band, row, column)
var ErrRank = errors.New("raster buffer must be rank-3 (band, row, column)")

// ValidationError 元数据字段校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ShapeError 缓冲区形状与元数据形状不一致
type ShapeError struct {
	Got  Shape
	Want Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("buffer shape %s does not match metadata shape %s", e.Got, e.Want)
}

// DTypeError 缓冲区数据类型与元数据数据类型不一致
type DTypeError struct {
	Got  DType
	Want DType
}

func (e *DTypeError) Error() string {
	return fmt.Sprintf("buffer dtype %s does not match metadata dtype %s", e.Got, e.Want)
}

// BandIndexError 波段索引越界，有效范围 [1, Count]
type BandIndexError struct {
	Index int
	Count int
}

func (e *BandIndexError) Error() string {
	return fmt.Sprintf("band index %d out of range [1, %d]", e.Index, e.Count)
}

// SourceReadError 包装外部编解码器或传输层的读取失败
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read raster source %q: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }
