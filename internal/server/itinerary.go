package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
)

type CreateItineraryItemRequest struct {
	Title     string     `json:"title"`
	Location  string     `json:"location"`
	Notes     string     `json:"notes"`
	DayIndex  int        `json:"day_index"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type UpdateItineraryItemRequest struct {
	Title     *string    `json:"title"`
	Location  *string    `json:"location"`
	Notes     *string    `json:"notes"`
	DayIndex  *int       `json:"day_index"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

func (s *Server) ListItineraryItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.itinerarySvc.List(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) CreateItineraryItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateItineraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.itinerarySvc.Create(c.Request.Context(), userID, c.Param("id"), itinerarydomain.CreateItemRequest{
		Title:     req.Title,
		Location:  req.Location,
		Notes:     req.Notes,
		DayIndex:  req.DayIndex,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) UpdateItineraryItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req UpdateItineraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.itinerarySvc.Update(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), itinerarydomain.UpdateItemRequest{
		Title:     req.Title,
		Location:  req.Location,
		Notes:     req.Notes,
		DayIndex:  req.DayIndex,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteItineraryItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.itinerarySvc.Delete(c.Request.Context(), userID, c.Param("id"), c.Param("itemId")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
