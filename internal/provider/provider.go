package provider

import (
	"context"
	"net/http"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// Provider 把“上游页面变化”限制在 provider 包内部；核心流程只依赖统一接口与 RawRecord。
//
// 约束：
// - Fetch 只发一次请求：不做缓存、不做重试（这些都不是列表抓取的职责）
// - Parse 必须是纯函数：相同输入 => 相同输出
// - Parse 对单个字段缺失必须容忍；只有“整页找不到任何条目”才算失败（ErrNoEntries）
type Provider interface {
	Name() string
	Fetch(ctx context.Context, c *http.Client) (body []byte, pageURL string, err error)
	Parse(body []byte, pageURL string) ([]domain.RawRecord, error)
}
