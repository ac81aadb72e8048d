package handlers

import (
	"net/http"

	"feedboard/internal/db"
	"feedboard/internal/models"
	"feedboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// Create posts a comment on a feature or bug.
func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	itemType := c.Param("type")
	if !models.ValidItemType(itemType) {
		JSONError(c, http.StatusBadRequest, "unknown item type")
		return
	}
	itemID := uint(utils.StringToInt(c.Param("id")))
	if itemID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	content := c.PostForm("content")
	if content == "" {
		JSONError(c, http.StatusBadRequest, "content is required")
		return
	}

	comment := models.Comment{
		Cid:           utils.RandStringBytesMaskImpr(8),
		ItemType:      itemType,
		ItemID:        itemID,
		UserID:        user.ID,
		Content:       content,
		AttachmentURL: c.PostForm("attachment_url"),
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create comment")
		return
	}

	JSONOK(c, http.StatusOK, gin.H{"comment": comment})
}

// Update edits a comment's text. Only the original author may edit.
func (h *CommentHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	cid := c.Param("cid")

	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		JSONError(c, http.StatusNotFound, "comment not found")
		return
	}

	if comment.UserID != user.ID {
		JSONError(c, http.StatusForbidden, "only the author can edit a comment")
		return
	}

	content := c.PostForm("content")
	if content == "" {
		JSONError(c, http.StatusBadRequest, "content is required")
		return
	}

	if err := db.DB.Model(&comment).Update("content", content).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update comment")
		return
	}

	comment.Content = content
	JSONOK(c, http.StatusOK, gin.H{"comment": comment})
}
