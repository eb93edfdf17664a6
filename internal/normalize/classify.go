package normalize

import "strings"

// 国产/华语判定使用的标记（大小写不敏感的子串匹配）。
var (
	DefaultRegionMarkers = []string{
		"中国大陆", "中国香港", "中国台湾", "中国澳门", "中国", "大陆", "香港", "台湾", "澳门",
		"Mainland China", "China", "Hong Kong", "Taiwan", "Macau",
	}
	DefaultLanguageMarkers = []string{
		"汉语普通话", "普通话", "国语", "粤语", "汉语", "中文", "华语", "闽南语",
		"Mandarin", "Cantonese", "Chinese",
	}
)

// Classifier 判定影片是否为国产/华语。
//
// 规则：地区命中任一地区标记，或语言命中任一语言标记，即为 true（两个独立信号取 OR）；
// 两者都缺失时为 false。
type Classifier struct {
	RegionMarkers   []string
	LanguageMarkers []string
}

func DefaultClassifier() Classifier {
	return Classifier{
		RegionMarkers:   DefaultRegionMarkers,
		LanguageMarkers: DefaultLanguageMarkers,
	}
}

func (c Classifier) IsDomestic(region, language string) bool {
	return containsAny(region, c.RegionMarkers) || containsAny(language, c.LanguageMarkers)
}

func containsAny(s string, markers []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
