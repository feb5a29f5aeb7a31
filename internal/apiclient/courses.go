package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"classtrack/internal/model"
)

// CoursesAPI covers courses.
type CoursesAPI struct {
	c *Client
}

// List returns all courses.
func (a *CoursesAPI) List(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	err := a.c.do(ctx, http.MethodGet, "/v1/courses", nil, nil, &out)
	return out, err
}

// ListByInstructor returns courses taught by one instructor.
func (a *CoursesAPI) ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	q := url.Values{"instructor_id": {instructorID}}
	var out []model.Course
	err := a.c.do(ctx, http.MethodGet, "/v1/courses", q, nil, &out)
	return out, err
}

// CourseInput creates or updates a course.
type CourseInput struct {
	Code         string `json:"code"`
	Title        string `json:"title"`
	InstructorID string `json:"instructor_id"`
}

// Create adds a course.
func (a *CoursesAPI) Create(ctx context.Context, in CourseInput) (model.Course, error) {
	var c model.Course
	err := a.c.do(ctx, http.MethodPost, "/v1/courses", nil, in, &c)
	return c, err
}

// Update replaces a course's fields.
func (a *CoursesAPI) Update(ctx context.Context, id string, in CourseInput) (model.Course, error) {
	var c model.Course
	err := a.c.do(ctx, http.MethodPut, "/v1/courses/"+id, nil, in, &c)
	return c, err
}

// Delete removes a course.
func (a *CoursesAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/v1/courses/"+id, nil, nil, nil)
}
