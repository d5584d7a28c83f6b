package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPPN(c *gin.Context) {
	options, err := s.taxSvc.ListPPN(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}

func (s *Server) ListPPH(c *gin.Context) {
	options, err := s.taxSvc.ListPPH(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}
