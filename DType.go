// DType.go
package Goraster

import (
	"fmt"
	"math"
)

// DType 像素数据类型，封闭集合
type DType int

const (
	DTUnknown DType = iota
	DTUint8
	DTInt8
	DTUint16
	DTInt16
	DTUint32
	DTInt32
	DTFloat32
	DTFloat64
)

var dtypeNames = map[DType]string{
	DTUint8:   "uint8",
	DTInt8:    "int8",
	DTUint16:  "uint16",
	DTInt16:   "int16",
	DTUint32:  "uint32",
	DTInt32:   "int32",
	DTFloat32: "float32",
	DTFloat64: "float64",
}

func (d DType) String() string {
	if name, ok := dtypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(d))
}

// ParseDType 按规范名称解析数据类型
func ParseDType(name string) (DType, error) {
	for d, n := range dtypeNames {
		if n == name {
			return d, nil
		}
	}
	return DTUnknown, &ValidationError{Field: "dtype", Reason: fmt.Sprintf("unsupported dtype %q", name)}
}

// Size 每个像素的字节数
func (d DType) Size() int {
	switch d {
	case DTUint8, DTInt8:
		return 1
	case DTUint16, DTInt16:
		return 2
	case DTUint32, DTInt32, DTFloat32:
		return 4
	case DTFloat64:
		return 8
	}
	return 0
}

// Integer 是否为整型
func (d DType) Integer() bool {
	switch d {
	case DTUint8, DTInt8, DTUint16, DTInt16, DTUint32, DTInt32:
		return true
	}
	return false
}

// Range 该类型可表示的最小值和最大值
func (d DType) Range() (min, max float64) {
	switch d {
	case DTUint8:
		return 0, math.MaxUint8
	case DTInt8:
		return math.MinInt8, math.MaxInt8
	case DTUint16:
		return 0, math.MaxUint16
	case DTInt16:
		return math.MinInt16, math.MaxInt16
	case DTUint32:
		return 0, math.MaxUint32
	case DTInt32:
		return math.MinInt32, math.MaxInt32
	case DTFloat32:
		return -math.MaxFloat32, math.MaxFloat32
	case DTFloat64:
		return -math.MaxFloat64, math.MaxFloat64
	}
	return 0, 0
}

// CanRepresent 判断标量值能否被该类型精确表示。
// 整型要求值为范围内的整数，浮点型允许 NaN。
func (d DType) CanRepresent(v float64) bool {
	if math.IsNaN(v) {
		return !d.Integer()
	}
	min, max := d.Range()
	if v < min || v > max {
		return false
	}
	if d.Integer() && v != math.Trunc(v) {
		return false
	}
	return true
}
