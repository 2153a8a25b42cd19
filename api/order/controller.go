/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
3. HandleAppError 会自动调用 errors.FromDomainError 转换错误
*/
package order

import (
	"ddd-course/api/response"
	orderapp "ddd-course/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.GET("/customer/:customerId", c.GetCustomerOrders)
		orderGroup.POST("/:id/items", c.AddItem)
		orderGroup.PUT("/:id/items/:productId", c.ChangeItemQuantity)
		orderGroup.DELETE("/:id/items/:productId", c.RemoveItem)
		orderGroup.POST("/:id/pay", c.PayOrder)
		orderGroup.POST("/:id/ship", c.ShipOrder)
		orderGroup.POST("/:id/cancel", c.CancelOrder)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单信息
// GET /api/v1/orders/:id
//
// 错误处理链路:
//
//	Repository 返回: DomainError{Err: shared.ErrNotFound}
//	     ↓
//	Service 包装:   fmt.Errorf("...: %w", err)
//	     ↓
//	HandleAppError: errors.FromDomainError -> NOT_FOUND -> 404
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// GetCustomerOrders 获取客户的所有订单
// GET /api/v1/orders/customer/:customerId
func (c *Controller) GetCustomerOrders(ctx *gin.Context) {
	orders, err := c.orderService.GetCustomerOrders(ctx.Request.Context(), ctx.Param("customerId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, orders, "customer orders retrieved successfully")
}

// AddItem 添加商品，同一商品合并数量
// POST /api/v1/orders/:id/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req orderapp.OrderItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.AddItem(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "item added successfully")
}

// ChangeItemQuantity 修改商品数量
// PUT /api/v1/orders/:id/items/:productId
func (c *Controller) ChangeItemQuantity(ctx *gin.Context) {
	var req orderapp.ChangeQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.ChangeItemQuantity(ctx.Request.Context(), ctx.Param("id"), ctx.Param("productId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "item quantity changed successfully")
}

// RemoveItem 移除商品
// DELETE /api/v1/orders/:id/items/:productId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	order, err := c.orderService.RemoveItem(ctx.Request.Context(), ctx.Param("id"), ctx.Param("productId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "item removed successfully")
}

// PayOrder 支付订单
// POST /api/v1/orders/:id/pay
func (c *Controller) PayOrder(ctx *gin.Context) {
	order, err := c.orderService.PayOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order paid successfully")
}

// ShipOrder 订单发货
// POST /api/v1/orders/:id/ship
func (c *Controller) ShipOrder(ctx *gin.Context) {
	order, err := c.orderService.ShipOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order shipped successfully")
}

// CancelOrder 取消订单
// POST /api/v1/orders/:id/cancel
func (c *Controller) CancelOrder(ctx *gin.Context) {
	var req orderapp.CancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.CancelOrder(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order cancelled successfully")
}
