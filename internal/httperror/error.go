// Package httperror defines the JSON error envelope used by all endpoints.
package httperror

type Error struct {
	Message string `json:"error" example:"the registration deadline for this meal has passed"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

func NewFromString(s string) Error {
	return Error{
		Message: s,
	}
}
