package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"feedboard/internal/services"

	"github.com/gin-gonic/gin"
)

// Attachments are capped client-side at 5MB; the same limit is enforced here
// as an advisory pre-check before the upstream upload.
const maxAttachmentSize = 5 * 1024 * 1024

type AttachmentHandler struct{}

func NewAttachmentHandler() *AttachmentHandler {
	return &AttachmentHandler{}
}

// Upload accepts a multipart attachment and returns its public URL.
// Requires a logged-in user.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("attachment")
	if err != nil {
		JSONError(c, http.StatusBadRequest, "no attachment in request")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		JSONError(c, http.StatusBadRequest, "only image attachments are allowed")
		return
	}

	if header.Size > maxAttachmentSize {
		JSONError(c, http.StatusBadRequest, "attachment must be 5MB or smaller")
		return
	}

	result, err := services.UploadAttachment(file, header)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, fmt.Sprintf("upload failed: %v", err))
		return
	}

	JSONOK(c, http.StatusOK, gin.H{"url": result.URL, "name": result.Name})
}
