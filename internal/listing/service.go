package listing

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/John-Robertt/filmboard/internal/domain"
	"github.com/John-Robertt/filmboard/internal/normalize"
	"github.com/John-Robertt/filmboard/internal/provider"
)

// Result 是一次“抓取 -> 解析 -> 归一化”的完整结果（含诊断信息，供 CLI 与日志使用）。
type Result struct {
	Provider string
	Films    []domain.Film
	Skipped  []normalize.Skipped
	Err      error // 非 nil 时一定是 *provider.Error
	Duration time.Duration
}

// Response 把 Result 映射为对外统一形状的列表响应。
func (r Result) Response() domain.ListingResponse {
	if r.Err != nil {
		return domain.Failed(r.Err.Error())
	}
	return domain.OK(r.Films)
}

// Service 每次调用都同步执行一次完整流水线；除只读配置外不持有任何跨请求状态。
type Service struct {
	Provider   provider.Provider
	Client     *http.Client
	Normalizer normalize.Normalizer

	// Raw 非 nil 时在抓取成功后收到上游原始 body（用于 fixture 采集）。
	Raw func(body []byte)
}

func New(p provider.Provider, c *http.Client, n normalize.Normalizer) *Service {
	return &Service{Provider: p, Client: c, Normalizer: n}
}

// List 执行流水线并返回统一形状的响应（失败不会 panic，也不会返回 nil data）。
func (s *Service) List(ctx context.Context) domain.ListingResponse {
	return s.Run(ctx).Response()
}

// Run 与 List 相同，但返回带诊断信息的 Result。
func (s *Service) Run(ctx context.Context) Result {
	started := time.Now()
	res := Result{}
	if s.Provider != nil {
		res.Provider = s.Provider.Name()
	}

	p := s.Provider
	if s.Raw != nil && p != nil {
		p = rawTap{Provider: p, tap: s.Raw}
	}

	records, err := provider.Collect(ctx, p, s.Client)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(started)
		slog.Error("listing fetch failed", "provider", res.Provider, "stage", provider.Stage(err), "error", err, "dur", res.Duration)
		return res
	}

	res.Films, res.Skipped = s.Normalizer.NormalizeAll(records)
	res.Duration = time.Since(started)
	slog.Info("listing ready",
		"provider", res.Provider,
		"records", len(records),
		"films", len(res.Films),
		"skipped", len(res.Skipped),
		"dur", res.Duration,
	)
	return res
}

// rawTap 在不改变 Provider 语义的前提下旁路出原始 body。
type rawTap struct {
	provider.Provider
	tap func([]byte)
}

func (t rawTap) Fetch(ctx context.Context, c *http.Client) ([]byte, string, error) {
	b, u, err := t.Provider.Fetch(ctx, c)
	if err == nil {
		t.tap(b)
	}
	return b, u, err
}
