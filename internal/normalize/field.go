package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// 各字段在不同上游中的键名（按优先级，先命中者胜）。
var (
	titleKeys    = []string{"title", "name", "data-title", "original_title"}
	scoreKeys    = []string{"score", "rate", "rating", "data-score"}
	releaseKeys  = []string{"release", "releaseDate", "release_date", "pubdate", "data-release", "year"}
	castKeys     = []string{"actors", "cast", "casts", "data-actors"}
	regionKeys   = []string{"region", "regions", "countries", "country", "data-region"}
	languageKeys = []string{"language", "languages", "lang"}
	idKeys       = []string{"subject", "id", "subject_id", "data-subject"}
	linkKeys     = []string{"url", "href", "detailLink", "link", "alt"}
)

// 列表值（如演员数组）拼接时使用的分隔符，与豆瓣 data-actors 的写法一致。
const listSep = " / "

var (
	// 带上可选负号，负分由 toScore 统一按无效处理。
	decimalRE = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	subjectRE = regexp.MustCompile(`/subject/(\d+)`)
)

// textField 返回第一个能转成非空文本的键值。
// 类型不符（bool、嵌套对象等）的值视为缺失，继续尝试下一个键。
func textField(r domain.RawRecord, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		if s, ok := toText(v); ok {
			return s, true
		}
	}
	return "", false
}

func textOr(r domain.RawRecord, keys []string, def string) string {
	if s, ok := textField(r, keys); ok {
		return s
	}
	return def
}

func toText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case []string:
		s = joinTexts(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if p, ok := toText(it); ok {
				parts = append(parts, p)
			}
		}
		s = joinTexts(parts)
	case map[string]any:
		// 形如 {"name": "..."} 的嵌套对象（演员、地区等）。
		for _, k := range []string{"name", "title", "value"} {
			if p, ok := toText(t[k]); ok {
				return p, true
			}
		}
		return "", false
	default:
		return "", false
	}
	s = strings.Join(strings.Fields(s), " ")
	return s, s != ""
}

func joinTexts(in []string) string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, listSep)
}

// scoreField 解析评分；任何失败都回落到 0（“暂无评分”）。
func scoreField(r domain.RawRecord) float64 {
	for _, k := range scoreKeys {
		v, ok := r[k]
		if !ok {
			continue
		}
		if f, ok := toScore(v); ok {
			return f
		}
	}
	return 0
}

func toScore(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		m := decimalRE.FindString(t)
		if m == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = n
	case map[string]any:
		// 形如 {"value": 9.7, "max": 10} 的评分对象。
		for _, k := range []string{"value", "average", "score"} {
			if n, ok := toScore(t[k]); ok {
				return n, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// stableID 返回条目的稳定 ID：优先显式 ID 字段，其次从详情链接中提取。
func stableID(r domain.RawRecord) (string, bool) {
	if id, ok := textField(r, idKeys); ok && !strings.ContainsAny(id, " /?#") {
		return id, true
	}
	for _, k := range linkKeys {
		s, ok := toText(r[k])
		if !ok {
			continue
		}
		if m := subjectRE.FindStringSubmatch(s); len(m) == 2 {
			return m[1], true
		}
	}
	return "", false
}
