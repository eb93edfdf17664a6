package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/John-Robertt/filmboard/internal/domain"
)

// ListingPath 是服务端列表接口路径。
const ListingPath = "/api/films"

// Client 从列表接口拉取数据并喂给 Board。
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch 请求列表接口并解码统一形状的响应（不论 HTTP 状态码）。
func (c *Client) Fetch(ctx context.Context) (domain.ListingResponse, error) {
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+ListingPath, nil)
	if err != nil {
		return domain.ListingResponse{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return domain.ListingResponse{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ListingResponse{}, err
	}
	var lr domain.ListingResponse
	if err := json.Unmarshal(b, &lr); err != nil {
		return domain.ListingResponse{}, fmt.Errorf("HTTP %d：响应不是合法的列表 JSON：%w", resp.StatusCode, err)
	}
	return lr, nil
}

// Refresh 拉取一次并更新 Board：成功则替换快照，失败则保留旧快照并附加错误提示。
// 并发调用不去重，最后完成的一次生效。
func (c *Client) Refresh(ctx context.Context, b *Board) (Display, error) {
	lr, err := c.Fetch(ctx)
	if err != nil {
		return b.FetchFailed(err.Error()), err
	}
	if !lr.Success {
		msg := lr.Error
		if msg == "" {
			msg = "unknown error"
		}
		return b.FetchFailed(msg), errors.New(msg)
	}
	return b.DataArrived(lr.Data), nil
}
