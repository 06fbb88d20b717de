package Goraster

import (
	"errors"
	"testing"
)

func TestMetadataProfile(t *testing.T) {
	meta := testMetadata(t)
	profile := meta.Profile()

	for _, key := range profileFields {
		if _, ok := profile[key]; !ok {
			t.Fatalf("profile is missing key %q", key)
		}
	}
	if profile["driver"] != DefaultDriverGTiff {
		t.Fatalf("unexpected driver %v", profile["driver"])
	}
	if profile["dtype"] != "int16" {
		t.Fatalf("unexpected dtype %v", profile["dtype"])
	}
	if profile["nodata"] != float64(-99) {
		t.Fatalf("unexpected nodata %v", profile["nodata"])
	}
}

func TestProfileNoDataUnset(t *testing.T) {
	meta, err := testMetadata(t).Copy(MetadataUpdates{ClearNoData: true})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Profile()["nodata"] != nil {
		t.Fatal("expected nil nodata in profile")
	}
}

func TestApplyCogProfile(t *testing.T) {
	profile := ApplyCogProfile(testMetadata(t).Profile())

	if profile["driver"] != DefaultDriverCog {
		t.Fatalf("unexpected driver %v", profile["driver"])
	}
	// COG 驱动不接受的键必须剔除
	for _, key := range []string{"blockxsize", "blockysize", "tiled", "interleave"} {
		if _, ok := profile[key]; ok {
			t.Fatalf("cog profile should not contain %q", key)
		}
	}
	if profile["blocksize"] != DefaultBlockSize {
		t.Fatalf("unexpected blocksize %v", profile["blocksize"])
	}
}

func TestApplyGeoTiffProfileKeepsInput(t *testing.T) {
	in := Profile{"width": 5, "compress": "lzw"}
	out := ApplyGeoTiffProfile(in)

	if out["width"] != 5 {
		t.Fatal("input keys should be preserved")
	}
	if out["compress"] != DefaultCompression {
		t.Fatal("defaults should win for structural keys")
	}
	if in["compress"] != "lzw" {
		t.Fatal("input profile must not be mutated")
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	meta := testMetadata(t)

	data, err := meta.Profile().JSON()
	if err != nil {
		t.Fatal(err)
	}
	profile, err := ProfileFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := MetadataFromProfile(profile)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Shape() != meta.Shape() || restored.DType() != meta.DType() || restored.CRS() != meta.CRS() {
		t.Fatalf("restored metadata %v does not match %v", restored, meta)
	}
	if restored.Transform() != meta.Transform() {
		t.Fatalf("restored transform %v does not match %v", restored.Transform(), meta.Transform())
	}
	nodata, ok := restored.NoData()
	if !ok || nodata != -99 {
		t.Fatalf("restored nodata %v (%v)", nodata, ok)
	}
}

func TestMetadataFromProfileMissingFields(t *testing.T) {
	_, err := MetadataFromProfile(Profile{"crs": "EPSG:4326"})
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
}

func TestMetadataFromProfileFractionalInteger(t *testing.T) {
	profile := testMetadata(t).Profile()
	profile["count"] = 2.7

	// 整数字段不做静默截断
	_, err := MetadataFromProfile(profile)
	if err == nil {
		t.Fatal("expected error for fractional count")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "count" {
		t.Fatalf("expected ValidationError on count, got %v", err)
	}
}
