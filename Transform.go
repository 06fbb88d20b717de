// Transform.go
package Goraster

import (
	"math"

	"github.com/paulmach/orb"
)

// Affine 仿射地理变换，GDAL 参数顺序:
// [0] 左上角X坐标 [1] X方向像素分辨率 [2] 行旋转
// [3] 左上角Y坐标 [4] 列旋转 [5] Y方向像素分辨率(通常为负)
type Affine [6]float64

// IdentityTransform 像素坐标系的默认变换
func IdentityTransform() Affine {
	return Affine{0, 1, 0, 0, 0, 1}
}

// TransformFromBounds 按地理范围和像素尺寸构造北向上的仿射变换
func TransformFromBounds(minX, minY, maxX, maxY float64, width, height int) Affine {
	return Affine{
		minX, (maxX - minX) / float64(width), 0,
		maxY, 0, (minY - maxY) / float64(height),
	}
}

// Apply 将像素坐标 (row, col) 映射到世界坐标 (x, y)
func (t Affine) Apply(row, col float64) (x, y float64) {
	x = t[0] + col*t[1] + row*t[2]
	y = t[3] + col*t[4] + row*t[5]
	return x, y
}

// Bounds 宽 width 高 height 的栅格在该变换下的世界范围
func (t Affine) Bounds(width, height int) orb.Bound {
	w, h := float64(width), float64(height)
	corners := [4][2]float64{{0, 0}, {0, w}, {h, 0}, {h, w}}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := t.Apply(c[0], c[1])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}
