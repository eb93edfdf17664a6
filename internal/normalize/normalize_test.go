package normalize

import (
	"errors"
	"math"
	"testing"

	"github.com/John-Robertt/filmboard/internal/domain"
)

func TestNormalize_EveryFieldPopulatedForAnyMissingSubset(t *testing.T) {
	full := domain.RawRecord{
		"title":   "流浪地球2",
		"score":   "8.3",
		"release": "2023-01-22",
		"actors":  "吴京 / 刘德华",
		"region":  "中国大陆",
	}
	keys := []string{"title", "score", "release", "actors", "region"}
	n := New("")

	// 枚举所有字段子集的缺失组合（2^5 种），每种都必须得到完整的 Film。
	for mask := 0; mask < 1<<len(keys); mask++ {
		r := domain.RawRecord{"subject": "35267208"}
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				r[k] = full[k]
			}
		}
		f, err := n.Normalize(r)
		if err != nil {
			t.Fatalf("mask=%b 不期望错误：%v", mask, err)
		}
		if f.Title == "" || f.ReleaseDate == "" || f.Cast == "" || f.DetailLink == "" {
			t.Fatalf("mask=%b 存在空字段：%+v", mask, f)
		}
		if f.Score < 0 || math.IsNaN(f.Score) {
			t.Fatalf("mask=%b score 非法：%v", mask, f.Score)
		}
	}
}

func TestNormalize_Defaults(t *testing.T) {
	f, err := New("").Normalize(domain.RawRecord{"id": "1"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := domain.Film{
		Title:              domain.PlaceholderTitle,
		Score:              0,
		ReleaseDate:        domain.PlaceholderRelease,
		Cast:               domain.PlaceholderCast,
		DetailLink:         "https://movie.douban.com/subject/1/",
		IsDomesticLanguage: false,
	}
	if f != want {
		t.Fatalf("默认值不符合预期：\n期望 %+v\n实际 %+v", want, f)
	}
}

func TestNormalize_ScoreParsing(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"8.5", 8.5},
		{" 7.9分 ", 7.9},
		{"9", 9},
		{8.3, 8.3},
		{map[string]any{"value": 9.7, "max": 10.0}, 9.7},
		{"", 0},
		{"暂无评分", 0},
		{-3.0, 0},
		{"-8.5", 0},
		{"-3", 0},
		{map[string]any{"value": "-9.1"}, 0},
		{math.NaN(), 0},
		{true, 0},
		{nil, 0},
	}
	for _, c := range cases {
		f, err := New("").Normalize(domain.RawRecord{"id": "1", "score": c.in})
		if err != nil {
			t.Fatalf("in=%v 不期望错误：%v", c.in, err)
		}
		if f.Score != c.want {
			t.Fatalf("in=%#v 期望 score=%v，实际=%v", c.in, c.want, f.Score)
		}
	}
}

func TestNormalize_ScoreKeyFallback(t *testing.T) {
	// score 字段无法解析时继续尝试 rate。
	f, _ := New("").Normalize(domain.RawRecord{"id": "1", "score": "", "rate": "7.1"})
	if f.Score != 7.1 {
		t.Fatalf("期望回退到 rate=7.1，实际=%v", f.Score)
	}
}

func TestNormalize_Classification(t *testing.T) {
	cases := []struct {
		name string
		rec  domain.RawRecord
		want bool
	}{
		{"region only", domain.RawRecord{"id": "1", "region": "中国大陆"}, true},
		{"region list", domain.RawRecord{"id": "1", "countries": []any{"美国", "中国香港"}}, true},
		{"language only", domain.RawRecord{"id": "1", "languages": []any{"英语", "粤语"}}, true},
		{"english marker", domain.RawRecord{"id": "1", "language": "Mandarin Chinese"}, true},
		{"region positive language foreign", domain.RawRecord{"id": "1", "region": "中国台湾", "language": "英语"}, true},
		{"foreign", domain.RawRecord{"id": "1", "region": "美国 英国", "language": "英语"}, false},
		{"no signal", domain.RawRecord{"id": "1"}, false},
	}
	for _, c := range cases {
		f, err := New("").Normalize(c.rec)
		if err != nil {
			t.Fatalf("%s 不期望错误：%v", c.name, err)
		}
		if f.IsDomesticLanguage != c.want {
			t.Fatalf("%s 期望 isDomesticLanguage=%v，实际=%v", c.name, c.want, f.IsDomesticLanguage)
		}
	}
}

func TestNormalize_DetailLinkFromStableID(t *testing.T) {
	n := New("https://example.test/films/%s")

	f, err := n.Normalize(domain.RawRecord{"id": 1291546.0, "url": "https://other.test/whatever"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if f.DetailLink != "https://example.test/films/1291546" {
		t.Fatalf("详情链接必须由 ID + 模板生成，实际=%q", f.DetailLink)
	}

	// 没有 ID 字段时从链接中提取。
	f, err = n.Normalize(domain.RawRecord{"url": "https://movie.douban.com/subject/35575567/?from=x"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if f.DetailLink != "https://example.test/films/35575567" {
		t.Fatalf("应从链接提取 ID，实际=%q", f.DetailLink)
	}

	if _, err := n.Normalize(domain.RawRecord{"title": "x", "url": "https://example.test/"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("期望 ErrMissingID，实际=%v", err)
	}
}

func TestNormalize_ListValuesJoined(t *testing.T) {
	f, _ := New("").Normalize(domain.RawRecord{
		"id":    "1",
		"casts": []any{"张国荣", map[string]any{"name": "张丰毅"}, 3.0, "  "},
		"year":  1993.0,
	})
	if f.Cast != "张国荣 / 张丰毅 / 3" {
		t.Fatalf("列表应以 ' / ' 拼接，实际=%q", f.Cast)
	}
	if f.ReleaseDate != "1993" {
		t.Fatalf("数字年份应格式化为文本，实际=%q", f.ReleaseDate)
	}
}

func TestNormalizeAll_SkipsOnlyBrokenRecordAndKeepsOrder(t *testing.T) {
	recs := []domain.RawRecord{
		{"id": "1", "title": "A"},
		{"title": "无 ID"},
		{"id": "3", "title": "C"},
	}
	films, skipped := New("").NormalizeAll(recs)
	if len(films) != 2 || films[0].Title != "A" || films[1].Title != "C" {
		t.Fatalf("应保留其余记录且保持上游顺序，实际=%+v", films)
	}
	if len(skipped) != 1 || skipped[0].Index != 1 || !errors.Is(skipped[0].Err, ErrMissingID) {
		t.Fatalf("skipped 不符合预期：%+v", skipped)
	}
}

func TestClassifier_CaseInsensitiveAndEmpty(t *testing.T) {
	c := DefaultClassifier()
	if !c.IsDomestic("HONG KONG", "") {
		t.Fatalf("地区匹配应大小写不敏感")
	}
	if c.IsDomestic("", "") {
		t.Fatalf("无信号应为 false")
	}
	if (Classifier{}).IsDomestic("中国大陆", "汉语普通话") {
		t.Fatalf("没有任何标记时不应命中")
	}
}
