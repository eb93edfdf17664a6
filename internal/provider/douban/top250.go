package douban

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/filmboard/internal/domain"
	"github.com/John-Robertt/filmboard/internal/provider"
)

const top250Items = "ol.grid_view > li"

var yearRE = regexp.MustCompile(`\d{4}`)

// Top250 抓取 Top250 第一页：<base>/top250
type Top250 struct {
	BaseURL string
}

func (Top250) Name() string { return "top250" }

func (p Top250) URL() string { return baseURL(p.BaseURL) + "/top250" }

func (p Top250) Fetch(ctx context.Context, c *http.Client) ([]byte, string, error) {
	u := p.URL()
	b, err := provider.FetchURL(ctx, c, u)
	return b, u, err
}

// Parse 提取每个条目的标题/评分/链接，并从信息块中拆出导演、主演、年份、地区、类型。
//
// 信息块形如（两段文本以 <br> 分隔）：
//
//	导演: 弗兰克·德拉邦特 Frank Darabont   主演: 蒂姆·罗宾斯 Tim Robbins /...
//	1994 / 美国 / 犯罪 剧情
func (Top250) Parse(body []byte, pageURL string) ([]domain.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	items := doc.Find(top250Items)
	if items.Length() == 0 {
		return nil, provider.ErrNoEntries
	}

	out := make([]domain.RawRecord, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		rec := domain.RawRecord{}
		setText(rec, "title", s.Find("div.hd span.title").First().Text())
		setText(rec, "score", s.Find("span.rating_num").First().Text())
		setText(rec, "quote", s.Find("p.quote span").First().Text())
		setText(rec, "rank", s.Find("div.pic em").First().Text())

		if href, ok := s.Find("div.hd a").First().Attr("href"); ok {
			href = resolveURL(pageURL, href)
			setText(rec, "url", href)
			setText(rec, "subject", subjectID(href))
		}

		parseInfo(rec, s.Find("div.bd p").First())
		out = append(out, rec)
	})
	return out, nil
}

func parseInfo(rec map[string]any, p *goquery.Selection) {
	if p.Length() == 0 {
		return
	}
	var lines []string
	p.Contents().Each(func(_ int, n *goquery.Selection) {
		if goquery.NodeName(n) != "#text" {
			return
		}
		for _, l := range strings.Split(n.Text(), "\n") {
			if l = normSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	})

	for _, l := range lines {
		switch {
		case strings.Contains(l, "导演:") || strings.Contains(l, "主演:"):
			director, actors := splitCredits(l)
			setText(rec, "director", director)
			setText(rec, "actors", actors)
		case yearRE.MatchString(l) && strings.Contains(l, "/"):
			parts := strings.Split(l, "/")
			setText(rec, "year", yearRE.FindString(parts[0]))
			if len(parts) > 1 {
				setText(rec, "region", parts[1])
			}
			if len(parts) > 2 {
				setText(rec, "genre", parts[len(parts)-1])
			}
		}
	}
}

// splitCredits 拆分“导演: X 主演: Y”行；任一部分缺失返回空串。
func splitCredits(l string) (director, actors string) {
	if i := strings.Index(l, "主演:"); i >= 0 {
		actors = strings.TrimSpace(l[i+len("主演:"):])
		actors = strings.TrimSpace(strings.TrimSuffix(actors, "..."))
		actors = strings.TrimSpace(strings.TrimSuffix(actors, "/"))
		l = l[:i]
	}
	if i := strings.Index(l, "导演:"); i >= 0 {
		director = strings.TrimSpace(l[i+len("导演:"):])
	}
	return director, actors
}
