package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/John-Robertt/filmboard/internal/domain"
)

const (
	StageFetch = "fetch"
	StageParse = "parse"
	StageEmpty = "empty"
)

// Error 是抓取阶段的可追溯错误（即对外的 FetchError）。
// 上层据此生成统一形状的失败响应；它永远是“可恢复”的，稍后重试即可。
type Error struct {
	Provider string // provider name（小写）
	Stage    string // "fetch" / "parse" / "empty"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s: %v", e.Provider, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Collect 对 p 做一次“抓取 + 解析”，返回按上游顺序排列的原始条目。
//
// 返回的 error 一定是 *Error：
// - 网络错误/超时/非 2xx/被拦截：Stage=fetch
// - body 无法按预期格式解码：Stage=parse
// - 结构选择器零命中：Stage=empty（Err 为 ErrNoEntries）
func Collect(ctx context.Context, p Provider, c *http.Client) ([]domain.RawRecord, error) {
	if p == nil {
		return nil, &Error{Provider: "", Stage: StageFetch, Err: errors.New("provider 不能为空")}
	}
	name := p.Name()

	started := time.Now()
	body, pageURL, err := p.Fetch(ctx, c)
	if err != nil {
		return nil, &Error{Provider: name, Stage: StageFetch, Err: err}
	}
	slog.Debug("upstream fetched", "provider", name, "url", pageURL, "bytes", len(body), "dur", time.Since(started))

	records, err := p.Parse(body, pageURL)
	if err != nil {
		if errors.Is(err, ErrNoEntries) {
			return nil, &Error{Provider: name, Stage: StageEmpty, Err: err}
		}
		return nil, &Error{Provider: name, Stage: StageParse, Err: err}
	}
	if len(records) == 0 {
		return nil, &Error{Provider: name, Stage: StageEmpty, Err: ErrNoEntries}
	}
	return records, nil
}

// Stage 从 error 中提取抓取阶段；若不是 *Error 则返回空串。
func Stage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
