package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
)

func (s *Server) ListInvLines(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	invNo := c.Param("inv_no")
	if actor.Role == auth.RoleSupplier {
		header, err := s.invoiceSvc.Get(c.Request.Context(), invNo)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if header.BPCode != actor.BPCode {
			AbortWithError(c, invoicedomain.ErrNotFound)
			return
		}
	}

	lines, err := s.invoiceSvc.ListLines(c.Request.Context(), invNo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}

// ListOutstandingInvLines lists lines available for invoicing. Suppliers
// only see their own receipts; back office sees everything.
func (s *Server) ListOutstandingInvLines(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	bpCode := ""
	if actor.Role == auth.RoleSupplier {
		bpCode = actor.BPCode
	}

	lines, err := s.invoiceSvc.ListOutstandingLines(c.Request.Context(), bpCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}

func (s *Server) ListOutstandingInvLinesByBPCode(c *gin.Context) {
	bpCode := strings.TrimSpace(c.Param("bp_code"))
	if bpCode == "" {
		AbortWithError(c, newValidationError("bp_code", "invalid_bp_code", "invalid bp code"))
		return
	}

	lines, err := s.invoiceSvc.ListOutstandingLines(c.Request.Context(), bpCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}
