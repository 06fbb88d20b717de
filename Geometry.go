// Geometry.go
package Goraster

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry 携带 CRS 信息的几何体
type Geometry struct {
	geom orb.Geometry
	crs  string
}

// NewGeometry 构造几何体，空几何或非法 CRS 立即失败
func NewGeometry(geom orb.Geometry, crs string) (*Geometry, error) {
	if geom == nil {
		return nil, &ValidationError{Field: "geometry", Reason: "nil geometry"}
	}
	crs, err := EnsureCRS(crs)
	if err != nil {
		return nil, err
	}
	return &Geometry{geom: geom, crs: crs}, nil
}

// Geom 底层 orb 几何体
func (g *Geometry) Geom() orb.Geometry { return g.geom }

// CRS 规范坐标系标识
func (g *Geometry) CRS() string { return g.crs }

// GeoJSON 序列化为 GeoJSON 几何字节串
func (g *Geometry) GeoJSON() ([]byte, error) {
	return geojson.NewGeometry(g.geom).MarshalJSON()
}

// GeometryFromGeoJSON 从 GeoJSON 几何字节串还原几何体
func GeometryFromGeoJSON(data []byte, crs string) (*Geometry, error) {
	gj, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode geojson geometry: %w", err)
	}
	return NewGeometry(gj.Geometry(), crs)
}

func (g *Geometry) String() string {
	return fmt.Sprintf("Geometry(type=%s, crs=%s)", g.geom.GeoJSONType(), g.crs)
}
