package course

// CreateCourseRequest 表示创建课程的入参。
type CreateCourseRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// EnrollStudentRequest 表示学生选课入参。
type EnrollStudentRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// CourseResponse 表示课程返回模型。
type CourseResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	SeatsLeft int      `json:"seats_left"`
	Full      bool     `json:"full"`
	Students  []string `json:"students"`
	Version   int      `json:"version"`
}
