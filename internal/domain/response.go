package domain

import "encoding/json"

// ListingResponse 是列表接口对外稳定输出的结构。
//
// 契约：无论成功失败，data 一定是数组（失败时为空数组），
// 让只会遍历 data 的调用方永远不会因为字段缺失而崩溃。
type ListingResponse struct {
	Success bool   `json:"success"`
	Data    []Film `json:"data"`
	Error   string `json:"error,omitempty"`
}

// OK 构造成功响应。
func OK(films []Film) ListingResponse {
	return ListingResponse{Success: true, Data: films}
}

// Failed 构造失败响应（data 固定为空数组）。
func Failed(msg string) ListingResponse {
	if msg == "" {
		msg = "unknown error"
	}
	return ListingResponse{Success: false, Data: []Film{}, Error: msg}
}

// MarshalJSON 集中约束输出形状：nil data 一律输出为 []，而不是 null。
func (r ListingResponse) MarshalJSON() ([]byte, error) {
	type Alias ListingResponse
	if r.Data == nil {
		r.Data = []Film{}
	}
	return json.Marshal(Alias(r))
}
