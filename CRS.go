// CRS.go
package Goraster

import (
	"fmt"
	"strconv"
	"strings"
)

// PixelCRS 无地理信息数据集的像素坐标系标记
const PixelCRS = "PIXEL"

// EnsureCRS 将各种 CRS 写法规范化为统一标识串。
// 支持 "EPSG:4326" 形式的权威码、WKT 和 proj4 串，WKT/proj4 原样保留。
func EnsureCRS(crs string) (string, error) {
	crs = strings.TrimSpace(crs)
	if crs == "" {
		return "", &ValidationError{Field: "crs", Reason: "empty CRS identifier"}
	}
	if crs == PixelCRS {
		return crs, nil
	}

	// WKT 或 proj4 串直接透传
	if strings.HasPrefix(crs, "GEOGCS") || strings.HasPrefix(crs, "PROJCS") ||
		strings.HasPrefix(crs, "GEOGCRS") || strings.HasPrefix(crs, "PROJCRS") ||
		strings.HasPrefix(crs, "+proj=") {
		return crs, nil
	}

	// 纯数字按 EPSG 码处理
	if code, err := strconv.Atoi(crs); err == nil {
		return CRSFromEPSG(code), nil
	}

	authority, code, ok := strings.Cut(crs, ":")
	if !ok {
		return "", &ValidationError{Field: "crs", Reason: fmt.Sprintf("unrecognized CRS %q", crs)}
	}
	if _, err := strconv.Atoi(code); err != nil {
		return "", &ValidationError{Field: "crs", Reason: fmt.Sprintf("non-numeric authority code in %q", crs)}
	}
	return strings.ToUpper(authority) + ":" + code, nil
}

// CRSFromEPSG 由 EPSG 码生成规范标识串
func CRSFromEPSG(code int) string {
	return fmt.Sprintf("EPSG:%d", code)
}

// EPSGCode 从规范标识串中提取 EPSG 码
func EPSGCode(crs string) (int, bool) {
	authority, codeStr, ok := strings.Cut(crs, ":")
	if !ok || !strings.EqualFold(authority, "EPSG") {
		return 0, false
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return 0, false
	}
	return code, true
}
