package server

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

var documentFolders = map[string]bool{
	"invoices":   true,
	"faktur":     true,
	"suratjalan": true,
	"po":         true,
	"payments":   true,
	"receipts":   true,
}

// StreamDocument serves a stored artifact. Only the known document
// folders are reachable and the filename may not carry path segments.
func (s *Server) StreamDocument(c *gin.Context) {
	folder := c.Param("folder")
	filename := c.Param("filename")

	if !documentFolders[folder] {
		AbortWithError(c, ErrNotFound)
		return
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename != path.Base(filename) {
		AbortWithError(c, newValidationError("filename", "invalid_filename", "invalid filename"))
		return
	}

	reader, err := s.store.Open(c.Request.Context(), path.Join(folder, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			AbortWithError(c, ErrNotFound)
			return
		}
		AbortWithError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
