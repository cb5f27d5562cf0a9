package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jwtauth/internal/domain"
	"jwtauth/internal/middleware"
)

const (
	problemContentType     = "application/problem+json"
	validationProblemTitle = "One or more validation errors occurred."
	internalErrorTitle     = "an internal error occurred"
)

// ProblemDetails is the error body returned by every endpoint.
type ProblemDetails struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// RespondProblem sends a problem details response with the given status code.
func RespondProblem(c *gin.Context, status int, title string) {
	writeProblem(c, ProblemDetails{Title: title, Status: status})
}

// RespondValidationProblem sends a 400 problem response describing binding failures.
func RespondValidationProblem(c *gin.Context, err error) {
	writeProblem(c, ProblemDetails{
		Title:  validationProblemTitle,
		Status: http.StatusBadRequest,
		Errors: validationErrors(err),
	})
}

func writeProblem(c *gin.Context, p ProblemDetails) {
	// gin only sets Content-Type when it is empty
	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(p.Status, p)
}

func validationErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"body": {"request body must be a JSON object with a string token"}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldErrorMessage(fe))
	}
	return out
}

// MapDomainError translates domain errors to HTTP status codes and problem titles.
func MapDomainError(err error) (status int, title string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSocialAuthTokenInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRegistrationInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, domain.ErrDuplicateEmail.Error()
	default:
		return http.StatusInternalServerError, internalErrorTitle
	}
}

// HandleError maps a domain error and sends the appropriate problem response.
// Errors mapped to 5xx are logged to log, since their detail is not returned.
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	status, title := MapDomainError(err)
	if status >= 500 {
		log.Error("internal error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	RespondProblem(c, status, title)
}
