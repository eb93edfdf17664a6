package douban

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/John-Robertt/filmboard/internal/domain"
	"github.com/John-Robertt/filmboard/internal/provider"
)

// listKeys 是 JSON 对象中可能承载条目数组的字段（按优先级）。
var listKeys = []string{"subjects", "data", "results", "items"}

// Subjects 抓取“选影视”JSON 接口：
// <base>/j/search_subjects?type=movie&tag=<tag>&page_limit=50&page_start=0
type Subjects struct {
	BaseURL string
	Tag     string
}

func (Subjects) Name() string { return "subjects" }

func (p Subjects) URL() string {
	tag := strings.TrimSpace(p.Tag)
	if tag == "" {
		tag = DefaultTag
	}
	q := url.Values{}
	q.Set("type", "movie")
	q.Set("tag", tag)
	q.Set("page_limit", "50")
	q.Set("page_start", "0")
	return baseURL(p.BaseURL) + "/j/search_subjects?" + q.Encode()
}

func (p Subjects) Fetch(ctx context.Context, c *http.Client) ([]byte, string, error) {
	u := p.URL()
	b, err := provider.FetchURL(ctx, c, u)
	return b, u, err
}

// Parse 直接把 JSON 解码为映射序列：顶层数组，或顶层对象中的条目数组。
// 数组中不是对象的元素会被忽略。
func (Subjects) Parse(body []byte, _ string) ([]domain.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("JSON 解码失败：%w", err)
	}

	list, err := entryList(v)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawRecord, 0, len(list))
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.RawRecord(m))
	}
	if len(out) == 0 {
		return nil, provider.ErrNoEntries
	}
	return out, nil
}

func entryList(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		for _, k := range listKeys {
			if arr, ok := t[k].([]any); ok {
				return arr, nil
			}
		}
		return nil, errors.New("JSON 对象中未找到条目数组（subjects/data/results/items）")
	default:
		return nil, fmt.Errorf("非预期的 JSON 顶层类型：%T", v)
	}
}
