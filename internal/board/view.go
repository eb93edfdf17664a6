package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// Category 是分类过滤维度。
type Category int

const (
	CategoryAll Category = iota
	CategoryDomesticOnly
)

func (c Category) String() string {
	switch c {
	case CategoryAll:
		return "all"
	case CategoryDomesticOnly:
		return "domestic"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// SortMode 是排序维度。
type SortMode int

const (
	SortByScoreDesc SortMode = iota
	SortByDateDesc
)

func (s SortMode) String() string {
	switch s {
	case SortByScoreDesc:
		return "score"
	case SortByDateDesc:
		return "date"
	default:
		return fmt.Sprintf("sort(%d)", int(s))
	}
}

// ParseCategory 解析 "all" / "domestic"。
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return CategoryAll, nil
	case "domestic", "chinese":
		return CategoryDomesticOnly, nil
	default:
		return CategoryAll, fmt.Errorf("分类只能是 all 或 domestic，实际是 %q", s)
	}
}

// ParseSortMode 解析 "score" / "date"。
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "score":
		return SortByScoreDesc, nil
	case "date", "time":
		return SortByDateDesc, nil
	default:
		return SortByScoreDesc, fmt.Errorf("排序只能是 score 或 date，实际是 %q", s)
	}
}

// ViewState 是两个相互独立的视图维度；零值即默认 {All, ByScoreDesc}。
type ViewState struct {
	Category Category
	Sort     SortMode
}

// Row 是一条展示行。Rank 从 1 开始，只用于展示，不属于 Film。
type Row struct {
	Rank int
	Film domain.Film
}

// Recompute 是纯函数：先过滤，再稳定排序，最后按位置编号。
// 不修改 snapshot；过滤后为空是合法结果（返回空切片而不是 nil）。
func Recompute(snapshot []domain.Film, vs ViewState) []Row {
	films := make([]domain.Film, 0, len(snapshot))
	for _, f := range snapshot {
		if vs.Category == CategoryDomesticOnly && !f.IsDomesticLanguage {
			continue
		}
		films = append(films, f)
	}

	switch vs.Sort {
	case SortByDateDesc:
		sort.SliceStable(films, func(i, j int) bool {
			ri, rj := dateRank(films[i].ReleaseDate), dateRank(films[j].ReleaseDate)
			if ri != rj {
				return ri < rj
			}
			if ri == rankDated {
				return films[i].ReleaseDate > films[j].ReleaseDate
			}
			return false
		})
	default:
		sort.SliceStable(films, func(i, j int) bool {
			return films[i].Score > films[j].Score
		})
	}

	rows := make([]Row, len(films))
	for i, f := range films {
		rows[i] = Row{Rank: i + 1, Film: f}
	}
	return rows
}

// 按日期排序时的分组：未定档占位在最前，其次是以年份开头的日期（倒序），
// 最后是无法按日期比较的自由文本（保持上游顺序）。
const (
	rankUnscheduled = iota
	rankDated
	rankFreeText
)

func dateRank(s string) int {
	if s == domain.PlaceholderRelease {
		return rankUnscheduled
	}
	if len(s) < 4 {
		return rankFreeText
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return rankFreeText
		}
	}
	return rankDated
}
