package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/wayfarerhq/wayfarer/internal/audit/domain"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: forbiddenErrorMessage(err),
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidName),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, tripdomain.ErrInvalidUser),
		errors.Is(err, tripdomain.ErrInvalidTrip),
		errors.Is(err, tripdomain.ErrInvalidName),
		errors.Is(err, tripdomain.ErrInvalidDates),
		errors.Is(err, memberdomain.ErrInvalidTrip),
		errors.Is(err, memberdomain.ErrInvalidMember),
		errors.Is(err, memberdomain.ErrInvalidEmail),
		errors.Is(err, memberdomain.ErrInvalidRole),
		errors.Is(err, itinerarydomain.ErrInvalidTrip),
		errors.Is(err, itinerarydomain.ErrInvalidItem),
		errors.Is(err, itinerarydomain.ErrInvalidTitle),
		errors.Is(err, auditdomain.ErrInvalidTrip):
		return true
	default:
		return false
	}
}

// isForbiddenError groups the plain insufficient-role denial with the two
// member-management denials that are forbidden rather than invalid: an
// owner row can never be mutated and a role above the actor's own cannot
// be handed out.
func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, tripdomain.ErrForbidden),
		errors.Is(err, memberdomain.ErrForbidden),
		errors.Is(err, memberdomain.ErrOwnerProtected),
		errors.Is(err, memberdomain.ErrRoleNotAssignable),
		errors.Is(err, itinerarydomain.ErrForbidden),
		errors.Is(err, auditdomain.ErrForbidden):
		return true
	default:
		return false
	}
}

func forbiddenErrorMessage(err error) string {
	switch {
	case errors.Is(err, memberdomain.ErrOwnerProtected):
		return "the trip owner cannot be modified or removed"
	case errors.Is(err, memberdomain.ErrRoleNotAssignable):
		return "you cannot assign that role"
	default:
		return "forbidden"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, tripdomain.ErrTripNotFound),
		errors.Is(err, memberdomain.ErrTripNotFound),
		errors.Is(err, memberdomain.ErrMemberNotFound),
		errors.Is(err, memberdomain.ErrUserNotFound),
		errors.Is(err, memberdomain.ErrInviteNotFound),
		errors.Is(err, itinerarydomain.ErrTripNotFound),
		errors.Is(err, itinerarydomain.ErrItemNotFound),
		errors.Is(err, auditdomain.ErrTripNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
