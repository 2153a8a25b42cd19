/*
Package response - API 层统一响应处理

设计原则:
1. HTTP 状态码映射放在 API 层，不污染领域层和应用层
2. 错误响应不暴露内部细节（堆栈、内部错误消息等）
3. 所有响应携带 RequestID 用于日志追踪

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", code: 4xx/5xx, request_id: "..." }
*/
package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一响应结构。
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ListResponse 是列表响应结构。
type ListResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}
