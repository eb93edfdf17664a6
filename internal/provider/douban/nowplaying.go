package douban

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/filmboard/internal/domain"
	"github.com/John-Robertt/filmboard/internal/provider"
)

// nowPlayingItems 是“正在热映”列表项的结构选择器。
const nowPlayingItems = "#nowplaying ul.lists > li.list-item"

// 列表项上以 data-* 属性承载的字段（RawRecord 中去掉 data- 前缀）。
var nowPlayingAttrs = []string{
	"data-title",
	"data-score",
	"data-star",
	"data-release",
	"data-duration",
	"data-region",
	"data-director",
	"data-actors",
	"data-category",
	"data-votecount",
	"data-subject",
}

// NowPlaying 抓取某城市“正在热映”页面：<base>/cinema/nowplaying/<city>/
type NowPlaying struct {
	BaseURL string
	City    string
}

func (NowPlaying) Name() string { return "nowplaying" }

func (p NowPlaying) URL() string {
	city := strings.TrimSpace(p.City)
	if city == "" {
		city = DefaultCity
	}
	return baseURL(p.BaseURL) + "/cinema/nowplaying/" + url.PathEscape(city) + "/"
}

func (p NowPlaying) Fetch(ctx context.Context, c *http.Client) ([]byte, string, error) {
	u := p.URL()
	b, err := provider.FetchURL(ctx, c, u)
	return b, u, err
}

// Parse 把每个列表项的 data-* 属性与子节点文本提取为一条 RawRecord。
// 单个字段缺失只会让该键缺席，不会中断该条目或整页的处理。
func (NowPlaying) Parse(body []byte, pageURL string) ([]domain.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	items := doc.Find(nowPlayingItems)
	if items.Length() == 0 {
		return nil, provider.ErrNoEntries
	}

	out := make([]domain.RawRecord, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		rec := domain.RawRecord{}
		for _, attr := range nowPlayingAttrs {
			setAttr(rec, strings.TrimPrefix(attr, "data-"), s, attr)
		}
		// li 的 id 与 data-subject 相同；作为 subject 缺失时的兜底。
		setAttr(rec, "id", s, "id")

		if _, ok := rec["title"]; !ok {
			setText(rec, "title", s.Find("li.stitle a").First().Text())
		}
		if href, ok := s.Find("li.poster a").First().Attr("href"); ok {
			setText(rec, "url", resolveURL(pageURL, href))
		}
		if src, ok := s.Find("li.poster img").First().Attr("src"); ok {
			setText(rec, "poster", resolveURL(pageURL, src))
		}
		out = append(out, rec)
	})
	return out, nil
}
