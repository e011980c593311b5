package model

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
}

// UpdateTaskRequest is a partial patch: nil fields keep their prior values.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
