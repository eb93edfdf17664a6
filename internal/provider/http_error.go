package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEntries 表示页面结构选择器一个条目都没匹配到。
// 通常意味着上游改版（或返回了非预期页面），视为抓取失败而不是崩溃。
var ErrNoEntries = errors.New("未找到任何条目（上游页面结构可能已变化）")

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// BlockedError 表示请求被站点引导到了“验证/拦截”页面（通常意味着需要浏览器执行 JS 或人工验证）。
// 不尝试绕过，直接视为抓取失败。
type BlockedError struct {
	URL    string
	Reason string // 例如 "sec.douban.com"
}

func (e *BlockedError) Error() string {
	if e == nil {
		return "blocked"
	}
	if strings.TrimSpace(e.Reason) == "" {
		return "blocked"
	}
	return "blocked: " + strings.TrimSpace(e.Reason)
}
