package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

func HandleCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}

// HandleList 以 {items, total} 返回切片，nil 切片渲染为 []。
func HandleList[T any](c *gin.Context, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	HandleSuccess(c, ListResponse{Items: items, Total: len(items)}, message)
}
