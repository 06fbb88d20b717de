// BandTags.go
package Goraster

import (
	"fmt"
	"sort"
)

// BandTags 按波段组织的键值标签，波段索引从 1 开始。
// 所有修改操作返回新实例，原实例不受影响。
type BandTags struct {
	tags map[int]map[string]string
}

// NewBandTags 构造波段标签，索引小于 1 时失败。传入的映射会被深拷贝。
func NewBandTags(tags map[int]map[string]string) (*BandTags, error) {
	out := make(map[int]map[string]string, len(tags))
	for band, kv := range tags {
		if band < 1 {
			return nil, &ValidationError{Field: "band", Reason: fmt.Sprintf("band index %d must be at least 1", band)}
		}
		copied := make(map[string]string, len(kv))
		for k, v := range kv {
			copied[k] = v
		}
		out[band] = copied
	}
	return &BandTags{tags: out}, nil
}

// BandIndices 已打标签的波段索引，升序
func (bt *BandTags) BandIndices() []int {
	indices := make([]int, 0, len(bt.tags))
	for band := range bt.tags {
		indices = append(indices, band)
	}
	sort.Ints(indices)
	return indices
}

// Tags 某个波段的全部标签，返回拷贝
func (bt *BandTags) Tags(band int) map[string]string {
	kv, ok := bt.tags[band]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(kv))
	for k, v := range kv {
		out[k] = v
	}
	return out
}

// Tag 读取单个标签值
func (bt *BandTags) Tag(band int, key string) (string, bool) {
	v, ok := bt.tags[band][key]
	return v, ok
}

// WithTag 追加单个标签，返回新实例
func (bt *BandTags) WithTag(band int, key, value string) (*BandTags, error) {
	return bt.WithBandTags(band, map[string]string{key: value})
}

// WithBandTags 合并某个波段的标签，返回新实例
func (bt *BandTags) WithBandTags(band int, kv map[string]string) (*BandTags, error) {
	if band < 1 {
		return nil, &ValidationError{Field: "band", Reason: fmt.Sprintf("band index %d must be at least 1", band)}
	}
	merged, err := NewBandTags(bt.tags)
	if err != nil {
		return nil, err
	}
	if _, ok := merged.tags[band]; !ok {
		merged.tags[band] = make(map[string]string, len(kv))
	}
	for k, v := range kv {
		merged.tags[band][k] = v
	}
	return merged, nil
}

// Merge 合并两组标签，other 中的同键值覆盖本实例，返回新实例
func (bt *BandTags) Merge(other *BandTags) (*BandTags, error) {
	merged, err := NewBandTags(bt.tags)
	if err != nil {
		return nil, err
	}
	for band, kv := range other.tags {
		if _, ok := merged.tags[band]; !ok {
			merged.tags[band] = make(map[string]string, len(kv))
		}
		for k, v := range kv {
			merged.tags[band][k] = v
		}
	}
	return merged, nil
}
