// Package douban 实现豆瓣电影的三种列表源：正在热映（HTML）、Top250（HTML）、选影视（JSON）。
package douban

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/filmboard/internal/provider"
)

const (
	DefaultBaseURL = "https://movie.douban.com"
	DefaultCity    = "beijing"
	DefaultTag     = "热门"
)

// Options 是三种列表源共用的可选项；零值即默认值。
type Options struct {
	// BaseURL 允许切换到镜像域名或测试服务器；为空时使用 DefaultBaseURL。
	BaseURL string
	City    string
	Tag     string
}

// Providers 返回全部豆瓣列表源（用于注册到 provider.Registry）。
func Providers(o Options) []provider.Provider {
	return []provider.Provider{
		NowPlaying{BaseURL: o.BaseURL, City: o.City},
		Top250{BaseURL: o.BaseURL},
		Subjects{BaseURL: o.BaseURL, Tag: o.Tag},
	}
}

func baseURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

var subjectRE = regexp.MustCompile(`/subject/(\d+)`)

// subjectID 从详情链接中提取稳定的条目 ID（找不到返回空串）。
func subjectID(href string) string {
	m := subjectRE.FindStringSubmatch(href)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// setText 只在值非空时写入字段：缺失字段保持“键不存在”，由 normalize 统一兜底。
func setText(rec map[string]any, key, v string) {
	v = normSpace(v)
	if v == "" {
		return
	}
	rec[key] = v
}

func setAttr(rec map[string]any, key string, s *goquery.Selection, attr string) {
	if v, ok := s.Attr(attr); ok {
		setText(rec, key, v)
	}
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
