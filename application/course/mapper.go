package course

import "ddd-course/domain/course"

func toCourseResponse(c *course.Course) *CourseResponse {
	students := c.Students()
	ids := make([]string, len(students))
	for i, id := range students {
		ids[i] = id.String()
	}
	return &CourseResponse{
		ID:        c.ID().String(),
		Name:      c.Name().String(),
		Capacity:  c.Capacity(),
		SeatsLeft: c.SeatsLeft(),
		Full:      c.IsFull(),
		Students:  ids,
		Version:   c.Version(),
	}
}
