/*
Package course - 课程 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误

错误处理:
1. 参数绑定错误: response.HandleError 直接返回 400
2. 业务错误: response.HandleAppError 按领域错误分类映射状态码（满员 422，课程不存在 404）
*/
package course

import (
	"ddd-course/api/response"
	courseapp "ddd-course/application/course"

	"github.com/gin-gonic/gin"
)

// Controller 课程控制器
type Controller struct {
	courseService *courseapp.ApplicationService
}

// NewController 创建课程控制器
func NewController(courseService *courseapp.ApplicationService) *Controller {
	return &Controller{courseService: courseService}
}

// RegisterRoutes 注册课程路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	courseGroup := router.Group("/courses")
	{
		courseGroup.POST("", c.CreateCourse)
		courseGroup.GET("/open", c.ListOpenCourses)
		courseGroup.GET("/:id", c.GetCourse)
		courseGroup.POST("/:id/enrollments", c.EnrollStudent)
	}
}

// CreateCourse 创建课程
// POST /api/v1/courses
func (c *Controller) CreateCourse(ctx *gin.Context) {
	var req courseapp.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, course, "course created successfully")
}

// GetCourse 获取课程
// GET /api/v1/courses/:id
func (c *Controller) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, course, "course retrieved successfully")
}

// ListOpenCourses 仍有空位的课程
// GET /api/v1/courses/open
func (c *Controller) ListOpenCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListOpenCourses(ctx.Request.Context())
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, courses, "open courses retrieved successfully")
}

// EnrollStudent 学生选课，重复选课不报错
// POST /api/v1/courses/:id/enrollments
func (c *Controller) EnrollStudent(ctx *gin.Context) {
	var req courseapp.EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	course, err := c.courseService.EnrollStudent(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, course, "student enrolled successfully")
}
