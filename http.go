package fintrack

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the JSON shape of every error reply
type ErrorResponse struct {
	Error    string         `json:"error"`
	TextCode string         `json:"text_code,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// JSONErrorHandler renders domain errors as JSON. Rich errors carry their own
// HTTP status; anything else is a 500 with the detail kept out of the body.
func JSONErrorHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status < router.StatusBadRequest {
			status = router.StatusInternalServerError
		}
		return ctx.JSON(status, ErrorResponse{
			Error:    richErr.Message,
			TextCode: richErr.TextCode,
			Metadata: richErr.Metadata,
		})
	}

	return ctx.JSON(router.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
	})
}
