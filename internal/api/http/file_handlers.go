package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// File endpoint replies
const (
	MsgFileCreated  = "File created"
	MsgFileUpdated  = "File updated"
	MsgFileDeleted  = "File deleted"
	MsgFileTooLarge = "File too large"
	MsgBodyUnread   = "Error reading request body"
)

// ListFiles lists regular files in the base directory, optionally filtered
// by the glob in ?pattern=
func (h *Handlers) ListFiles(c *gin.Context) {
	names, err := h.files.List(c.Request.Context(), c.Query("pattern"))
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// GetFile returns file content as text/plain
func (h *Handlers) GetFile(c *gin.Context) {
	content, err := h.files.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// StatFile returns size, modification time and MIME type
func (h *Handlers) StatFile(c *gin.Context) {
	info, err := h.files.Stat(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// CreateFile creates a file holding the default content
func (h *Handlers) CreateFile(c *gin.Context) {
	if err := h.files.Create(c.Request.Context(), c.Param("filename")); err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, MsgFileCreated)
}

// UpdateFile replaces the content of an existing file with the request body.
// The filename is checked before the body is read.
func (h *Handlers) UpdateFile(c *gin.Context) {
	name := c.Param("filename")
	if err := h.files.Check(c.Request.Context(), name); err != nil {
		h.fail(c, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, errs.Oversized("http.update_file", MsgFileTooLarge, err))
			return
		}
		h.fail(c, errs.Invalid("http.update_file", MsgBodyUnread, err))
		return
	}

	if err := h.files.Update(c.Request.Context(), name, body); err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, MsgFileUpdated)
}

// DeleteFile removes a file
func (h *Handlers) DeleteFile(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, MsgFileDeleted)
}
