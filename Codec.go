// Codec.go
package Goraster

// RasterCodec 外部栅格编解码器。
// 核心只通过 (缓冲区, 元数据) 对与编解码器交换数据，
// 解码失败由调用方包装为 SourceReadError。
type RasterCodec interface {
	// Decode 从文件路径或 GDAL 可识别的源读出缓冲区和元数据
	Decode(source string) (*Buffer, *RasterMetadata, error)
	// Encode 将栅格写入目标路径
	Encode(path string, arr *RasterArray) error
}

// FromRaster 委托编解码器取得 (缓冲区, 元数据) 对并做与 NewRasterArray
// 相同的校验，解码失败包装为 SourceReadError 上抛。
func FromRaster(codec RasterCodec, source string) (*RasterArray, error) {
	buffer, metadata, err := codec.Decode(source)
	if err != nil {
		return nil, &SourceReadError{Source: source, Err: err}
	}
	return NewRasterArray(buffer, metadata)
}

// ToRaster 将栅格写入文件，写入参数取自元数据的 profile
func (ra *RasterArray) ToRaster(codec RasterCodec, path string) error {
	return codec.Encode(path, ra)
}
