package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
)

type CreateTripRequest struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `json:"notes"`
}

// UpdateTripRequest distinguishes an omitted field from an explicit empty
// value: nil pointers leave the stored value untouched.
type UpdateTripRequest struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes"`
}

func (s *Server) ListTrips(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	trips, err := s.tripSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

func (s *Server) CreateTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	trip, err := s.tripSvc.Create(c.Request.Context(), userID, tripdomain.CreateTripRequest{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (s *Server) GetTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	trip, err := s.tripSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (s *Server) UpdateTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	trip, err := s.tripSvc.Update(c.Request.Context(), userID, c.Param("id"), tripdomain.UpdateTripRequest{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (s *Server) DeleteTrip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.tripSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
