package Goraster

import (
	"reflect"
	"testing"
)

func TestNewBandTags(t *testing.T) {
	tags, err := NewBandTags(map[int]map[string]string{
		1: {"classification": "red", "wavelength": "650nm"},
		3: {"classification": "blue"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := tags.BandIndices(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("unexpected band indices %v", got)
	}
	if v, ok := tags.Tag(1, "wavelength"); !ok || v != "650nm" {
		t.Fatalf("unexpected tag %q (%v)", v, ok)
	}
	if got := tags.Tags(2); len(got) != 0 {
		t.Fatalf("expected no tags for band 2, got %v", got)
	}
}

func TestNewBandTagsInvalidIndex(t *testing.T) {
	_, err := NewBandTags(map[int]map[string]string{0: {"k": "v"}})
	if err == nil {
		t.Fatal("expected error for band index 0")
	}
}

func TestBandTagsImmutable(t *testing.T) {
	source := map[int]map[string]string{1: {"k": "v"}}
	tags, err := NewBandTags(source)
	if err != nil {
		t.Fatal(err)
	}

	// 修改来源映射和读出的映射都不应影响实例
	source[1]["k"] = "changed"
	read := tags.Tags(1)
	read["k"] = "changed again"

	if v, _ := tags.Tag(1, "k"); v != "v" {
		t.Fatalf("tags were mutated: %q", v)
	}
}

func TestWithTag(t *testing.T) {
	tags, err := NewBandTags(map[int]map[string]string{1: {"a": "1"}})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := tags.WithTag(2, "b", "2")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := tags.Tag(2, "b"); ok {
		t.Fatal("original instance should be unchanged")
	}
	if v, ok := updated.Tag(2, "b"); !ok || v != "2" {
		t.Fatalf("unexpected tag %q (%v)", v, ok)
	}
	if v, ok := updated.Tag(1, "a"); !ok || v != "1" {
		t.Fatalf("existing tags should carry over, got %q (%v)", v, ok)
	}
}

func TestBandTagsMerge(t *testing.T) {
	base, err := NewBandTags(map[int]map[string]string{1: {"a": "1", "b": "base"}})
	if err != nil {
		t.Fatal(err)
	}
	other, err := NewBandTags(map[int]map[string]string{1: {"b": "other"}, 2: {"c": "3"}})
	if err != nil {
		t.Fatal(err)
	}

	merged, err := base.Merge(other)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := merged.Tag(1, "b"); v != "other" {
		t.Fatalf("other should win on conflict, got %q", v)
	}
	if v, _ := merged.Tag(1, "a"); v != "1" {
		t.Fatalf("base tags should survive, got %q", v)
	}
	if got := merged.BandIndices(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("unexpected band indices %v", got)
	}
}
