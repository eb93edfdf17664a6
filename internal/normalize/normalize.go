package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// DefaultLinkTemplate 是详情链接模板；%s 为条目稳定 ID。
const DefaultLinkTemplate = "https://movie.douban.com/subject/%s/"

// ErrMissingID 表示条目既没有 ID 字段，也无法从链接中提取 ID。
// 这是唯一会让单条记录被跳过的情况（详情链接不允许为空）。
var ErrMissingID = errors.New("缺少稳定条目 ID，无法生成详情链接")

// Normalizer 把 RawRecord 映射为 Film：逐字段“尝试，失败则取默认值”。
type Normalizer struct {
	Classifier   Classifier
	LinkTemplate string
}

func New(linkTemplate string) Normalizer {
	if strings.TrimSpace(linkTemplate) == "" {
		linkTemplate = DefaultLinkTemplate
	}
	return Normalizer{
		Classifier:   DefaultClassifier(),
		LinkTemplate: linkTemplate,
	}
}

// Normalize 是纯函数：相同输入 => 相同输出。
func (n Normalizer) Normalize(r domain.RawRecord) (domain.Film, error) {
	id, ok := stableID(r)
	if !ok {
		return domain.Film{}, ErrMissingID
	}

	tpl := n.LinkTemplate
	if tpl == "" {
		tpl = DefaultLinkTemplate
	}

	region, _ := textField(r, regionKeys)
	language, _ := textField(r, languageKeys)

	return domain.Film{
		Title:              textOr(r, titleKeys, domain.PlaceholderTitle),
		Score:              scoreField(r),
		ReleaseDate:        textOr(r, releaseKeys, domain.PlaceholderRelease),
		Cast:               textOr(r, castKeys, domain.PlaceholderCast),
		DetailLink:         fmt.Sprintf(tpl, url.PathEscape(id)),
		IsDomesticLanguage: n.Classifier.IsDomestic(region, language),
	}, nil
}

// Skipped 记录被跳过的单条记录（Index 为其在上游序列中的下标）。
type Skipped struct {
	Index int
	Err   error
}

// NormalizeAll 按上游顺序逐条归一化；单条失败只跳过该条，绝不丢弃整批。
func (n Normalizer) NormalizeAll(records []domain.RawRecord) ([]domain.Film, []Skipped) {
	films := make([]domain.Film, 0, len(records))
	var skipped []Skipped
	for i, r := range records {
		f, err := n.Normalize(r)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			slog.Warn("record skipped", "index", i, "title", textOr(r, titleKeys, ""), "error", err)
			continue
		}
		films = append(films, f)
	}
	return films, skipped
}
