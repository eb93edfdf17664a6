package provider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes 限制单页读取上限，避免上游异常时把超大响应读进内存。
const maxBodyBytes = 8 << 20

// blockMarkers 是已知的“验证/拦截页”特征（命中 Location 或最终 URL 即视为被拦截）。
var blockMarkers = []string{"sec.douban.com", "/misc/sorry", "accounts.douban.com/passport/login"}

// FetchURL 对 u 发起一次 GET，并返回 2xx 响应的 body。
//
// - 非 2xx：HTTPStatusError
// - 被重定向到验证/登录页：BlockedError
// - 空 body：视为失败
func FetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.Request != nil && resp.Request.URL != nil {
		if reason, ok := blockedBy(resp.Request.URL.String()); ok {
			return nil, &BlockedError{URL: resp.Request.URL.String(), Reason: reason}
		}
	}
	loc := strings.TrimSpace(resp.Header.Get("Location"))
	if reason, ok := blockedBy(loc); ok {
		return nil, &BlockedError{URL: loc, Reason: reason}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: loc}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}

func blockedBy(u string) (string, bool) {
	if u == "" {
		return "", false
	}
	for _, m := range blockMarkers {
		if strings.Contains(u, m) {
			return m, true
		}
	}
	return "", false
}
