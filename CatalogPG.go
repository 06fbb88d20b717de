// CatalogPG.go
package Goraster

import (
	"encoding/hex"
	"fmt"

	"github.com/paulmach/orb/encoding/wkb"
	"gorm.io/gorm"
)

// EnsureFootprintTable 在 PostGIS 中创建栅格足迹表，表已存在时跳过
func EnsureFootprintTable(db *gorm.DB, table string) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id   TEXT PRIMARY KEY,
			uri  TEXT NOT NULL,
			crs  TEXT NOT NULL,
			geom geometry(Polygon) NOT NULL
		)`, table)
	if err := db.Exec(schema).Error; err != nil {
		return fmt.Errorf("failed to create footprint table: %w", err)
	}
	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_geom ON %s USING GIST (geom)`, table, table)
	if err := db.Exec(index).Error; err != nil {
		return fmt.Errorf("failed to create footprint index: %w", err)
	}
	return nil
}

// SyncFootprintsToPG 将目录记录的外包框多边形写入 PostGIS 足迹表。
// 几何体按十六进制 WKB 传入，SRID 取自记录 CRS 的 EPSG 码，未知时为 0。
func SyncFootprintsToPG(db *gorm.DB, table string, entries []CatalogEntry) error {
	for _, entry := range entries {
		if entry.Metadata == nil {
			return &ValidationError{Field: "metadata", Reason: fmt.Sprintf("entry %s has no metadata", entry.ID)}
		}

		footprint := entry.Metadata.Bounds().ToPolygon()
		raw, err := wkb.Marshal(footprint)
		if err != nil {
			return fmt.Errorf("failed to encode footprint for %s: %w", entry.ID, err)
		}

		srid, _ := EPSGCode(entry.Metadata.CRS())
		query := fmt.Sprintf(`
			INSERT INTO %s (id, uri, crs, geom)
			VALUES (?, ?, ?, ST_SetSRID(ST_GeomFromWKB(decode(?, 'hex')), ?))
			ON CONFLICT (id) DO UPDATE SET uri = EXCLUDED.uri, crs = EXCLUDED.crs, geom = EXCLUDED.geom`,
			table)
		err = db.Exec(query, entry.ID, entry.URI, entry.Metadata.CRS(), hex.EncodeToString(raw), srid).Error
		if err != nil {
			return fmt.Errorf("failed to sync footprint for %s: %w", entry.ID, err)
		}
	}
	return nil
}

// IntersectingFromPG 查询足迹与外包框相交的栅格记录 ID
func IntersectingFromPG(db *gorm.DB, table string, box BoundingBox) ([]string, error) {
	raw, err := wkb.Marshal(box.Bound().ToPolygon())
	if err != nil {
		return nil, fmt.Errorf("failed to encode query box: %w", err)
	}
	srid, _ := EPSGCode(box.CRS)

	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE crs = ? AND ST_Intersects(geom, ST_SetSRID(ST_GeomFromWKB(decode(?, 'hex')), ?))`,
		table)

	rows, err := db.Raw(query, box.CRS, hex.EncodeToString(raw), srid).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query footprints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan footprint row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
