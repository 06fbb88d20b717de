// BoundingBox.go
package Goraster

import (
	"fmt"

	"github.com/paulmach/orb"
)

// BoundingBox 携带 CRS 信息的外包框
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
	CRS  string
}

// NewBoundingBox 构造外包框并规范化 CRS
func NewBoundingBox(minX, minY, maxX, maxY float64, crs string) (BoundingBox, error) {
	crs, err := EnsureCRS(crs)
	if err != nil {
		return BoundingBox{}, err
	}
	if minX > maxX || minY > maxY {
		return BoundingBox{}, &ValidationError{
			Field:  "bounds",
			Reason: fmt.Sprintf("min corner (%v, %v) exceeds max corner (%v, %v)", minX, minY, maxX, maxY),
		}
	}
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, CRS: crs}, nil
}

// BoundingBoxFromGeometry 取几何体的外包框，CRS 随几何体带过来
func BoundingBoxFromGeometry(g *Geometry) (BoundingBox, error) {
	if g == nil {
		return BoundingBox{}, &ValidationError{Field: "geometry", Reason: "nil geometry"}
	}
	bound := g.Geom().Bound()
	return NewBoundingBox(bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1], g.CRS())
}

// BoundingBoxFromBound 由 orb.Bound 构造外包框
func BoundingBoxFromBound(bound orb.Bound, crs string) (BoundingBox, error) {
	return NewBoundingBox(bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1], crs)
}

// Bound orb 形式的外包框
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// Intersects 判断两个同 CRS 外包框是否相交
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.CRS != other.CRS {
		return false
	}
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox(%v, %v, %v, %v, crs=%s)", b.MinX, b.MinY, b.MaxX, b.MaxY, b.CRS)
}
