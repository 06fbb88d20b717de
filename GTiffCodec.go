// GTiffCodec.go
package Goraster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"
)

var gdalRegisterOnce sync.Once

// GTiffCodecOptions GTiff 编解码选项，零值使用默认创建参数
type GTiffCodecOptions struct {
	// CreationOptions GDAL 创建参数，形如 "COMPRESS=DEFLATE"
	CreationOptions []string
}

// GTiffCodec 基于 GDAL (godal) 的 GeoTIFF 编解码器，实现 RasterCodec。
// 注意: 该 GDAL 版本没有 int8 像素类型，DTInt8 栅格的编解码会
// 直接返回 ValidationError，需要 int8 数据时应先转为 int16。
type GTiffCodec struct {
	creationOptions []string
}

// NewGTiffCodec 构造 GeoTIFF 编解码器并注册 GDAL 驱动
func NewGTiffCodec(opts GTiffCodecOptions) *GTiffCodec {
	gdalRegisterOnce.Do(godal.RegisterAll)

	creation := opts.CreationOptions
	if creation == nil {
		creation = []string{
			fmt.Sprintf("COMPRESS=%s", strings.ToUpper(DefaultCompression)),
			fmt.Sprintf("ZLEVEL=%d", DefaultCompressLevel),
			"TILED=YES",
			fmt.Sprintf("BLOCKXSIZE=%d", DefaultBlockSize),
			fmt.Sprintf("BLOCKYSIZE=%d", DefaultBlockSize),
			fmt.Sprintf("BIGTIFF=%s", DefaultBigTiff),
			fmt.Sprintf("INTERLEAVE=%s", strings.ToUpper(DefaultInterleave)),
		}
	}
	return &GTiffCodec{creationOptions: creation}
}

// Decode 打开数据源并整体读出 (缓冲区, 元数据) 对
func (c *GTiffCodec) Decode(source string) (*Buffer, *RasterMetadata, error) {
	ds, err := godal.Open(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer ds.Close()

	st := ds.Structure()
	dtype, err := dtypeFromGDAL(st.DataType)
	if err != nil {
		return nil, nil, err
	}

	transform := IdentityTransform()
	if gt, err := ds.GeoTransform(); err == nil {
		transform = Affine(gt)
	}

	crs := datasetCRS(ds)

	var nodata *float64
	bands := ds.Bands()
	if len(bands) > 0 {
		if v, ok := bands[0].NoData(); ok {
			nodata = NoData(v)
		}
	}

	metadata, err := NewRasterMetadata(crs, st.NBands, st.SizeX, st.SizeY, dtype, nodata, transform)
	if err != nil {
		return nil, nil, err
	}

	buffer, err := NewBufferOf(dtype, st.NBands, st.SizeY, st.SizeX)
	if err != nil {
		return nil, nil, err
	}
	for i, band := range bands {
		if err := band.Read(0, 0, buffer.bandSlice(i), st.SizeX, st.SizeY); err != nil {
			return nil, nil, fmt.Errorf("failed to read band %d: %w", i+1, err)
		}
	}

	return buffer, metadata, nil
}

// Encode 按元数据 profile 创建 GeoTIFF 并逐波段写入
func (c *GTiffCodec) Encode(path string, arr *RasterArray) error {
	meta := arr.Metadata()
	gdalType, err := dtypeToGDAL(meta.DType())
	if err != nil {
		return err
	}

	ds, err := godal.Create(godal.GTiff, path, meta.Count(), gdalType,
		meta.Width(), meta.Height(), godal.CreationOption(c.creationOptions...))
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	if err := c.writeDataset(ds, arr); err != nil {
		ds.Close()
		return err
	}
	return ds.Close()
}

func (c *GTiffCodec) writeDataset(ds *godal.Dataset, arr *RasterArray) error {
	meta := arr.Metadata()

	if err := ds.SetGeoTransform([6]float64(meta.Transform())); err != nil {
		return fmt.Errorf("failed to set geotransform: %w", err)
	}
	if wkt, err := crsToWKT(meta.CRS()); err != nil {
		return err
	} else if wkt != "" {
		if err := ds.SetProjection(wkt); err != nil {
			return fmt.Errorf("failed to set projection: %w", err)
		}
	}
	if nodata, ok := meta.NoData(); ok {
		if err := ds.SetNoData(nodata); err != nil {
			return fmt.Errorf("failed to set nodata: %w", err)
		}
	}

	buffer := arr.Buffer()
	for i, band := range ds.Bands() {
		if err := band.Write(0, 0, buffer.bandSlice(i), meta.Width(), meta.Height()); err != nil {
			return fmt.Errorf("failed to write band %d: %w", i+1, err)
		}
	}
	return nil
}

// datasetCRS 提取数据集的规范 CRS 标识，优先使用权威码，
// 无法识别时退回 WKT，无投影信息时标记为像素坐标系
func datasetCRS(ds *godal.Dataset) string {
	if sr := ds.SpatialRef(); sr != nil {
		defer sr.Close()
		if name, code := sr.AuthorityName(""), sr.AuthorityCode(""); name != "" && code != "" {
			return name + ":" + code
		}
	}
	if wkt := ds.Projection(); wkt != "" {
		return wkt
	}
	return PixelCRS
}

// crsToWKT 将规范 CRS 标识转为 WKT，像素坐标系返回空串
func crsToWKT(crs string) (string, error) {
	if crs == PixelCRS {
		return "", nil
	}
	if code, ok := EPSGCode(crs); ok {
		sr, err := godal.NewSpatialRefFromEPSG(code)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", crs, err)
		}
		defer sr.Close()
		return sr.WKT()
	}
	// WKT/proj4 透传
	return crs, nil
}

func dtypeFromGDAL(dt godal.DataType) (DType, error) {
	switch dt {
	case godal.Byte:
		return DTUint8, nil
	case godal.UInt16:
		return DTUint16, nil
	case godal.Int16:
		return DTInt16, nil
	case godal.UInt32:
		return DTUint32, nil
	case godal.Int32:
		return DTInt32, nil
	case godal.Float32:
		return DTFloat32, nil
	case godal.Float64:
		return DTFloat64, nil
	}
	return DTUnknown, &ValidationError{Field: "dtype", Reason: fmt.Sprintf("unsupported GDAL data type %s", dt)}
}

func dtypeToGDAL(dt DType) (godal.DataType, error) {
	switch dt {
	case DTUint8:
		return godal.Byte, nil
	case DTUint16:
		return godal.UInt16, nil
	case DTInt16:
		return godal.Int16, nil
	case DTUint32:
		return godal.UInt32, nil
	case DTInt32:
		return godal.Int32, nil
	case DTFloat32:
		return godal.Float32, nil
	case DTFloat64:
		return godal.Float64, nil
	}
	return godal.Unknown, &ValidationError{Field: "dtype", Reason: fmt.Sprintf("dtype %s has no GDAL equivalent", dt)}
}
