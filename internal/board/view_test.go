package board

import (
	"reflect"
	"testing"

	"github.com/John-Robertt/filmboard/internal/domain"
)

func sample() []domain.Film {
	return []domain.Film{
		{Title: "A", Score: 0, ReleaseDate: "2099-01-01", IsDomesticLanguage: false},
		{Title: "B", Score: 8.5, ReleaseDate: "2024-01-01", IsDomesticLanguage: true},
		{Title: "C", Score: 8.5, ReleaseDate: domain.PlaceholderRelease, IsDomesticLanguage: true},
		{Title: "D", Score: 9.1, ReleaseDate: "2023-05-01", IsDomesticLanguage: false},
		{Title: "E", Score: 0, ReleaseDate: "2024-01-01", IsDomesticLanguage: true},
	}
}

func titles(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Film.Title
	}
	return out
}

func TestRecompute_Scenario_DomesticByScore(t *testing.T) {
	snapshot := []domain.Film{
		{Title: "A", Score: 0, ReleaseDate: "2099-01-01", IsDomesticLanguage: false},
		{Title: "B", Score: 8.5, ReleaseDate: "2024-01-01", IsDomesticLanguage: true},
	}
	rows := Recompute(snapshot, ViewState{Category: CategoryDomesticOnly, Sort: SortByScoreDesc})
	if len(rows) != 1 || rows[0].Film.Title != "B" || rows[0].Rank != 1 {
		t.Fatalf("期望 [B] 且 rank=1，实际=%+v", rows)
	}
}

func TestRecompute_ScoreDescStable(t *testing.T) {
	rows := Recompute(sample(), ViewState{})
	want := []string{"D", "B", "C", "A", "E"}
	if got := titles(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Fatalf("rank 必须是 1 起的位置编号：%+v", rows)
		}
	}
}

func TestRecompute_DateDescPlaceholderFirst(t *testing.T) {
	rows := Recompute(sample(), ViewState{Sort: SortByDateDesc})
	// B 与 E 同日期，保持上游相对顺序。
	want := []string{"C", "A", "B", "E", "D"}
	if got := titles(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
}

func TestRecompute_DateDescFreeTextAfterDates(t *testing.T) {
	snap := []domain.Film{
		{Title: "文本1", ReleaseDate: "待定"},
		{Title: "旧", ReleaseDate: "2021-03-01"},
		{Title: "占位", ReleaseDate: domain.PlaceholderRelease},
		{Title: "文本2", ReleaseDate: "Summer"},
		{Title: "新", ReleaseDate: "2024(中国大陆)"},
	}
	rows := Recompute(snap, ViewState{Sort: SortByDateDesc})
	want := []string{"占位", "新", "旧", "文本1", "文本2"}
	if got := titles(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
}

func TestRecompute_OrthogonalAcrossAllViews(t *testing.T) {
	snap := sample()
	for _, c := range []Category{CategoryAll, CategoryDomesticOnly} {
		for _, s := range []SortMode{SortByScoreDesc, SortByDateDesc} {
			vs := ViewState{Category: c, Sort: s}
			rows := Recompute(snap, vs)

			wantLen := 0
			for _, f := range snap {
				if c == CategoryAll || f.IsDomesticLanguage {
					wantLen++
				}
			}
			if len(rows) != wantLen {
				t.Fatalf("%v/%v 过滤结果数量不对：期望 %d，实际 %d", c, s, wantLen, len(rows))
			}
			for i, r := range rows {
				if c == CategoryDomesticOnly && !r.Film.IsDomesticLanguage {
					t.Fatalf("%v/%v 包含非国产条目：%+v", c, s, r)
				}
				if i == 0 {
					continue
				}
				prev := rows[i-1].Film
				switch s {
				case SortByScoreDesc:
					if prev.Score < r.Film.Score {
						t.Fatalf("%v/%v 未按评分降序：%v", c, s, titles(rows))
					}
				case SortByDateDesc:
					if prev.ReleaseDate < r.Film.ReleaseDate {
						t.Fatalf("%v/%v 未按日期降序：%v", c, s, titles(rows))
					}
				}
			}
		}
	}
}

func TestRecompute_IdempotentAndPure(t *testing.T) {
	snap := sample()
	orig := append([]domain.Film(nil), snap...)
	vs := ViewState{Category: CategoryAll, Sort: SortByDateDesc}

	a := Recompute(snap, vs)
	b := Recompute(snap, vs)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次重算结果不同：%v vs %v", titles(a), titles(b))
	}
	if !reflect.DeepEqual(snap, orig) {
		t.Fatalf("Recompute 不应修改快照")
	}
}

func TestRecompute_EmptyIsValid(t *testing.T) {
	rows := Recompute([]domain.Film{{Title: "A"}}, ViewState{Category: CategoryDomesticOnly})
	if rows == nil || len(rows) != 0 {
		t.Fatalf("过滤为空应返回空切片，实际=%#v", rows)
	}
	if rows := Recompute(nil, ViewState{}); rows == nil {
		t.Fatalf("空快照也应返回空切片")
	}
}

func TestParseViewDimensions(t *testing.T) {
	if c, err := ParseCategory("Domestic"); err != nil || c != CategoryDomesticOnly {
		t.Fatalf("ParseCategory 失败：%v %v", c, err)
	}
	if _, err := ParseCategory("foreign"); err == nil {
		t.Fatalf("未知分类应报错")
	}
	if s, err := ParseSortMode("date"); err != nil || s != SortByDateDesc {
		t.Fatalf("ParseSortMode 失败：%v %v", s, err)
	}
	if s, _ := ParseSortMode(""); s != SortByScoreDesc {
		t.Fatalf("默认排序应为 score")
	}
	if _, err := ParseSortMode("rank"); err == nil {
		t.Fatalf("未知排序应报错")
	}
}
