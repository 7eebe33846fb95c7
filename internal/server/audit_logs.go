package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListTripAuditLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	logs, err := s.auditSvc.ListForTrip(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
