// Profiles.go
package Goraster

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// 编解码器默认参数
const (
	DefaultBlockSize     = 512
	DefaultCompressLevel = 9
	DefaultDriverCog     = "COG"
	DefaultDriverGTiff   = "GTiff"
	DefaultInterleave    = "pixel"
	DefaultBigTiff       = "YES"
	DefaultCompression   = "deflate"
)

// Profile 与外部编解码器交换的元数据映射
type Profile map[string]any

// profileFields 与编解码器交换的核心键名
var profileFields = []string{"crs", "count", "width", "height", "dtype", "nodata", "transform"}

// geoTiffDefaults GTiff 驱动的结构参数
var geoTiffDefaults = Profile{
	"bigtiff":    DefaultBigTiff,
	"blockxsize": DefaultBlockSize,
	"blockysize": DefaultBlockSize,
	"compress":   DefaultCompression,
	"driver":     DefaultDriverGTiff,
	"interleave": DefaultInterleave,
	"tiled":      true,
	"zlevel":     DefaultCompressLevel,
}

// cogDefaults COG 驱动的结构参数
var cogDefaults = Profile{
	"bigtiff":             DefaultBigTiff,
	"blocksize":           DefaultBlockSize,
	"compress":            DefaultCompression,
	"driver":              DefaultDriverCog,
	"level":               DefaultCompressLevel,
	"overview_resampling": "nearest",
	"predictor":           "standard",
}

// Copy 浅拷贝
func (p Profile) Copy() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ApplyGeoTiffProfile 在已有 profile 上合并 GTiff 默认参数
func ApplyGeoTiffProfile(p Profile) Profile {
	out := p.Copy()
	for k, v := range geoTiffDefaults {
		out[k] = v
	}
	return out
}

// ApplyCogProfile 在已有 profile 上合并 COG 默认参数。
// COG 驱动自行管理分块和交织方式，相关键必须剔除否则创建报错。
func ApplyCogProfile(p Profile) Profile {
	out := make(Profile, len(p)+len(cogDefaults))
	invalid := map[string]struct{}{
		"blockxsize": {}, "blockysize": {}, "tiled": {}, "interleave": {},
	}
	for k, v := range p {
		if _, bad := invalid[k]; bad {
			continue
		}
		out[k] = v
	}
	for k, v := range cogDefaults {
		out[k] = v
	}
	return out
}

// JSON 序列化为 JSON 字节串
func (p Profile) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// ProfileFromJSON 从 JSON 字节串还原 profile
func ProfileFromJSON(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// Profile 导出套用 GTiff 默认参数的编解码器映射
func (m *RasterMetadata) Profile() Profile {
	p := Profile{
		"crs":       m.crs,
		"count":     m.count,
		"width":     m.width,
		"height":    m.height,
		"dtype":     m.dtype.String(),
		"nodata":    nil,
		"transform": m.transform,
	}
	if m.nodata != nil {
		p["nodata"] = *m.nodata
	}
	return ApplyGeoTiffProfile(p)
}

// MetadataFromProfile 从编解码器映射还原元数据，解码方向与 Profile 对应。
// 数值字段兼容 JSON 往返产生的 float64。
func MetadataFromProfile(p Profile) (*RasterMetadata, error) {
	crs, ok := p["crs"].(string)
	if !ok {
		return nil, &ValidationError{Field: "crs", Reason: "profile is missing a crs string"}
	}
	count, err := profileInt(p, "count")
	if err != nil {
		return nil, err
	}
	width, err := profileInt(p, "width")
	if err != nil {
		return nil, err
	}
	height, err := profileInt(p, "height")
	if err != nil {
		return nil, err
	}
	dtypeName, ok := p["dtype"].(string)
	if !ok {
		return nil, &ValidationError{Field: "dtype", Reason: "profile is missing a dtype string"}
	}
	dtype, err := ParseDType(dtypeName)
	if err != nil {
		return nil, err
	}

	var nodata *float64
	switch v := p["nodata"].(type) {
	case nil:
	case float64:
		nodata = NoData(v)
	case int:
		nodata = NoData(float64(v))
	default:
		return nil, &ValidationError{Field: "nodata", Reason: fmt.Sprintf("unsupported nodata value %v", v)}
	}

	transform, err := profileTransform(p)
	if err != nil {
		return nil, err
	}

	return NewRasterMetadata(crs, count, width, height, dtype, nodata, transform)
}

func profileInt(p Profile, key string) (int, error) {
	switch v := p[key].(type) {
	case int:
		return v, nil
	case float64:
		// JSON 往返会把整数变成 float64，带小数的值不做静默截断
		if v != math.Trunc(v) {
			return 0, &ValidationError{Field: key, Reason: fmt.Sprintf("value %v is not an integer", v)}
		}
		return int(v), nil
	}
	return 0, &ValidationError{Field: key, Reason: fmt.Sprintf("profile is missing an integer %s", key)}
}

func profileTransform(p Profile) (Affine, error) {
	switch v := p["transform"].(type) {
	case Affine:
		return v, nil
	case [6]float64:
		return Affine(v), nil
	case []any:
		if len(v) != 6 {
			return Affine{}, &ValidationError{Field: "transform", Reason: fmt.Sprintf("expected 6 coefficients, got %d", len(v))}
		}
		var t Affine
		for i, e := range v {
			f, ok := e.(float64)
			if !ok {
				return Affine{}, &ValidationError{Field: "transform", Reason: fmt.Sprintf("coefficient %d is not a number", i)}
			}
			t[i] = f
		}
		return t, nil
	}
	return Affine{}, &ValidationError{Field: "transform", Reason: "profile is missing an affine transform"}
}
