package domain

// RawRecord 是上游单条条目的原始字段集合（字段名 -> 原值）。
//
// 约束：
// - HTML 源的值一律是 string；JSON 源保留 encoding/json 解码出的原始类型
// - 字段可能缺失，也可能类型与预期不符；由 normalize 逐字段兜底
// - 只在一次抓取周期内存在，不跨请求复用
type RawRecord map[string]any

// 缺省值（上游缺字段时填充）。
const (
	PlaceholderTitle = "未知片名"
	PlaceholderCast  = "暂无演员信息"
	// PlaceholderRelease 是远未来日期：按时间降序时未定档条目排在最前，升序时排在最后。
	PlaceholderRelease = "9999-12-31"
)

// Film 是对外稳定输出的影片记录（每个字段都必有值）。
//
// 不变量：
// - Title/ReleaseDate/Cast/DetailLink 非空
// - Score >= 0；0 表示“暂无评分”，而不是最低分
// - 创建后不再修改；切片整体替换
type Film struct {
	Title              string  `json:"title"`
	Score              float64 `json:"score"`
	ReleaseDate        string  `json:"releaseDate"`
	Cast               string  `json:"cast"`
	DetailLink         string  `json:"detailLink"`
	IsDomesticLanguage bool    `json:"isDomesticLanguage"`
}

// Scored 表示该影片是否有有效评分。
func (f Film) Scored() bool { return f.Score > 0 }

// Unscheduled 表示上映日期缺失（使用了占位日期）。
func (f Film) Unscheduled() bool { return f.ReleaseDate == PlaceholderRelease }
