// ObjectLocation.go
package Goraster

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ObjectLocation 对象存储中的位置，由 bucket 和对象路径组成
type ObjectLocation struct {
	Bucket string
	Path   string
}

// ParseS3URI 解析 "s3://bucket/path" 形式的 URI
func ParseS3URI(uri string) (ObjectLocation, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return ObjectLocation{}, fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return ObjectLocation{}, &ValidationError{Field: "uri", Reason: fmt.Sprintf("%q is not an s3:// uri", uri)}
	}
	return ObjectLocation{Bucket: u.Host, Path: strings.TrimPrefix(u.Path, "/")}, nil
}

// S3URI 生成 "s3://bucket/path" 形式的 URI
func (loc ObjectLocation) S3URI() string {
	return fmt.Sprintf("s3://%s/%s", loc.Bucket, loc.Path)
}

// IsDirectory 路径以 "/" 结尾视为目录
func (loc ObjectLocation) IsDirectory() bool {
	return strings.HasSuffix(loc.Path, "/")
}

// Basename 路径最后一段
func (loc ObjectLocation) Basename() string {
	return path.Base(strings.TrimSuffix(loc.Path, "/"))
}

// Extend 在当前路径后追加一段，返回新位置
func (loc ObjectLocation) Extend(suffix string) ObjectLocation {
	suffix = strings.TrimPrefix(suffix, "/")
	base := loc.Path
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return ObjectLocation{Bucket: loc.Bucket, Path: base + suffix}
}

func (loc ObjectLocation) String() string { return loc.S3URI() }
