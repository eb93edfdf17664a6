package board

import (
	"sync"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// Display 是某一时刻完整的展示状态（一次性整体替换，不会出现“半更新”）。
type Display struct {
	View ViewState
	Rows []Row
	// Err 是最近一次抓取失败的提示；成功到达新数据后清空。
	Err string
	// HasData 表示是否收到过至少一次成功数据。
	HasData bool
}

// Board 持有最近一次成功抓取的快照与视图状态。
//
// 约束：
// - 只有 SetCategoryFilter / SetSortMode / DataArrived / FetchFailed 四条变更路径
// - 每次变更都在锁内整体重算 Display，读者只会看到旧状态或新状态
// - 抓取失败保留上一次成功的快照，只附加错误提示
type Board struct {
	mu       sync.Mutex
	snapshot []domain.Film
	display  Display
}

func New() *Board {
	return &Board{display: Display{Rows: []Row{}}}
}

func (b *Board) SetCategoryFilter(c Category) Display {
	return b.update(func(d *Display) { d.View.Category = c })
}

func (b *Board) SetSortMode(s SortMode) Display {
	return b.update(func(d *Display) { d.View.Sort = s })
}

// DataArrived 用新快照整体替换旧快照（拷贝一份，调用方后续修改不影响 Board）。
func (b *Board) DataArrived(films []domain.Film) Display {
	snap := append([]domain.Film(nil), films...)
	return b.update(func(d *Display) {
		b.snapshot = snap
		d.HasData = true
		d.Err = ""
	})
}

// FetchFailed 记录失败提示，快照保持不变。
func (b *Board) FetchFailed(msg string) Display {
	if msg == "" {
		msg = "unknown error"
	}
	return b.update(func(d *Display) { d.Err = msg })
}

// Display 返回当前展示状态。
func (b *Board) Display() Display {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.display
}

func (b *Board) update(mut func(d *Display)) Display {
	b.mu.Lock()
	d := b.display
	mut(&d)
	d.Rows = Recompute(b.snapshot, d.View)
	b.display = d
	b.mu.Unlock()
	return d
}
