package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", authdomain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired session", authdomain.ErrSessionExpired, http.StatusUnauthorized},
		{"trip not found", tripdomain.ErrTripNotFound, http.StatusNotFound},
		{"member not found", memberdomain.ErrMemberNotFound, http.StatusNotFound},
		{"item not found", itinerarydomain.ErrItemNotFound, http.StatusNotFound},
		{"forbidden", tripdomain.ErrForbidden, http.StatusForbidden},
		{"owner protected", memberdomain.ErrOwnerProtected, http.StatusForbidden},
		{"role not assignable", memberdomain.ErrRoleNotAssignable, http.StatusForbidden},
		{"invalid dates", tripdomain.ErrInvalidDates, http.StatusBadRequest},
		{"invalid role", memberdomain.ErrInvalidRole, http.StatusBadRequest},
		{"invalid title", itinerarydomain.ErrInvalidTitle, http.StatusBadRequest},
		{"user exists", authdomain.ErrUserExists, http.StatusConflict},
		{"unknown", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := mapError(tc.err)
			if status != tc.status {
				t.Fatalf("expected %d for %v, got %d", tc.status, tc.err, status)
			}
		})
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, memberdomain.ErrOwnerProtected)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if body := w.Body.String(); body == "" {
		t.Fatal("expected json error body")
	}
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(tripdomain.ErrInvalidDates)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if payload.Type != "validation_error" {
		t.Fatalf("expected validation_error type, got %s", payload.Type)
	}
	if len(payload.Errors) != 1 || payload.Errors[0].Field != "dates" {
		t.Fatalf("expected field derived from code, got %+v", payload.Errors)
	}
}
