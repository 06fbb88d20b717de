// RasterCatalog.go
package Goraster

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// CatalogEntry 目录中的一条栅格记录
type CatalogEntry struct {
	ID       string
	URI      string
	Metadata *RasterMetadata
}

// RasterCatalog 基于 SQLite 的栅格元数据目录，
// 按 CRS 和外包框索引已登记的栅格数据集
type RasterCatalog struct {
	db *sql.DB
}

// OpenRasterCatalog 打开或创建目录数据库
func OpenRasterCatalog(path string) (*RasterCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	catalog := &RasterCatalog{db: db}
	if err := catalog.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return catalog, nil
}

func (c *RasterCatalog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rasters (
		id      TEXT PRIMARY KEY,
		uri     TEXT NOT NULL,
		crs     TEXT NOT NULL,
		count   INTEGER NOT NULL,
		width   INTEGER NOT NULL,
		height  INTEGER NOT NULL,
		dtype   TEXT NOT NULL,
		nodata  REAL,
		minx    REAL NOT NULL,
		miny    REAL NOT NULL,
		maxx    REAL NOT NULL,
		maxy    REAL NOT NULL,
		profile TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rasters_bounds ON rasters (crs, minx, miny, maxx, maxy);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close 关闭目录数据库
func (c *RasterCatalog) Close() error { return c.db.Close() }

// Register 登记一个栅格数据集，返回分配的目录 ID
func (c *RasterCatalog) Register(uri string, meta *RasterMetadata) (string, error) {
	if meta == nil {
		return "", &ValidationError{Field: "metadata", Reason: "nil metadata"}
	}

	profile, err := meta.Profile().JSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	var nodata sql.NullFloat64
	if v, ok := meta.NoData(); ok {
		nodata = sql.NullFloat64{Float64: v, Valid: true}
	}

	id := uuid.NewString()
	bounds := meta.Bounds()
	_, err = c.db.Exec(`
		INSERT INTO rasters (id, uri, crs, count, width, height, dtype, nodata, minx, miny, maxx, maxy, profile)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, uri, meta.CRS(), meta.Count(), meta.Width(), meta.Height(), meta.DType().String(),
		nodata, bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1], string(profile))
	if err != nil {
		return "", fmt.Errorf("failed to register raster: %w", err)
	}
	log.Printf("registered raster %s as %s", uri, id)
	return id, nil
}

// Lookup 按目录 ID 取出记录，不存在时返回 sql.ErrNoRows
func (c *RasterCatalog) Lookup(id string) (CatalogEntry, error) {
	row := c.db.QueryRow(`SELECT id, uri, profile FROM rasters WHERE id = ?`, id)
	return scanEntry(row.Scan)
}

// Intersecting 查询与外包框相交的全部记录，只匹配同 CRS 的栅格
func (c *RasterCatalog) Intersecting(box BoundingBox) ([]CatalogEntry, error) {
	rows, err := c.db.Query(`
		SELECT id, uri, profile FROM rasters
		WHERE crs = ? AND minx <= ? AND maxx >= ? AND miny <= ? AND maxy >= ?`,
		box.CRS, box.MaxX, box.MinX, box.MaxY, box.MinY)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Remove 删除一条记录，不存在时报错
func (c *RasterCatalog) Remove(id string) error {
	result, err := c.db.Exec(`DELETE FROM rasters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove raster: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("raster %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (CatalogEntry, error) {
	var entry CatalogEntry
	var profileJSON string
	if err := scan(&entry.ID, &entry.URI, &profileJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CatalogEntry{}, err
		}
		return CatalogEntry{}, fmt.Errorf("failed to scan catalog row: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return CatalogEntry{}, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	meta, err := MetadataFromProfile(profile)
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("stored profile for %s is invalid: %w", entry.ID, err)
	}
	entry.Metadata = meta
	return entry, nil
}
