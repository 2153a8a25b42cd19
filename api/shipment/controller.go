// Package shipment - 运单 API 控制器
package shipment

import (
	"context"

	"ddd-course/api/response"
	shipmentapp "ddd-course/application/shipment"

	"github.com/gin-gonic/gin"
)

// Controller 运单控制器
type Controller struct {
	shipmentService *shipmentapp.ApplicationService
}

// NewController 创建运单控制器
func NewController(shipmentService *shipmentapp.ApplicationService) *Controller {
	return &Controller{shipmentService: shipmentService}
}

// RegisterRoutes 注册运单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	shipmentGroup := router.Group("/shipments")
	{
		shipmentGroup.POST("", c.CreateShipment)
		shipmentGroup.GET("", c.ListShipments)
		shipmentGroup.GET("/:id", c.GetShipment)
		shipmentGroup.POST("/:id/parcels", c.AddParcel)
		shipmentGroup.POST("/:id/dispatch", c.transition(c.shipmentService.Dispatch, "shipment dispatched"))
		shipmentGroup.POST("/:id/transit", c.transition(c.shipmentService.StartTransit, "shipment in transit"))
		shipmentGroup.POST("/:id/deliver", c.transition(c.shipmentService.MarkDelivered, "shipment delivered"))
		shipmentGroup.POST("/:id/cancel", c.CancelShipment)
	}
}

// CreateShipment 创建运单
// POST /api/v1/shipments
func (c *Controller) CreateShipment(ctx *gin.Context) {
	var req shipmentapp.CreateShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	shipment, err := c.shipmentService.CreateShipment(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, shipment, "shipment created successfully")
}

// GetShipment 获取运单
// GET /api/v1/shipments/:id
func (c *Controller) GetShipment(ctx *gin.Context) {
	shipment, err := c.shipmentService.GetShipment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, shipment, "shipment retrieved successfully")
}

// ListShipments 按状态查询运单
// GET /api/v1/shipments?status=CREATED
func (c *Controller) ListShipments(ctx *gin.Context) {
	status := ctx.Query("status")
	if status == "" {
		response.HandleError(ctx, nil, "status query parameter is required")
		return
	}

	shipments, err := c.shipmentService.ListByStatus(ctx.Request.Context(), status)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, shipments, "shipments retrieved successfully")
}

// AddParcel 装入包裹
// POST /api/v1/shipments/:id/parcels
func (c *Controller) AddParcel(ctx *gin.Context) {
	var req shipmentapp.AddParcelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	shipment, err := c.shipmentService.AddParcel(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, shipment, "parcel added successfully")
}

// CancelShipment 取消运单
// POST /api/v1/shipments/:id/cancel
func (c *Controller) CancelShipment(ctx *gin.Context) {
	var req shipmentapp.CancelShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	shipment, err := c.shipmentService.Cancel(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, shipment, "shipment cancelled successfully")
}

// transition 无请求体的状态流转：发运、运输中、签收
func (c *Controller) transition(
	fn func(ctx context.Context, shipmentID string) (*shipmentapp.ShipmentResponse, error),
	message string,
) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		shipment, err := fn(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, shipment, message)
	}
}
