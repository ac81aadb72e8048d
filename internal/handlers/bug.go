package handlers

import (
	"net/http"
	"time"

	"feedboard/internal/db"
	"feedboard/internal/models"
	"feedboard/internal/utils"
	"feedboard/internal/views"
	"feedboard/internal/votes"

	"github.com/gin-gonic/gin"
)

const bugCacheKey = "board:bugs"

type BugHandler struct {
	votes *votes.Service
}

func NewBugHandler(voteService *votes.Service) *BugHandler {
	return &BugHandler{votes: voteService}
}

// fillBugCommentCounts batch-fills the comment count for a list of bugs.
func fillBugCommentCounts(bugs []models.Bug) {
	if len(bugs) == 0 {
		return
	}

	itemIDs := make([]uint, len(bugs))
	for i, b := range bugs {
		itemIDs[i] = b.ID
	}

	type CountResult struct {
		ItemID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("item_id, COUNT(*) as count").
		Where("item_type = ? AND item_id IN ?", models.ItemTypeBug, itemIDs).
		Group("item_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.ItemID] = r.Count
	}

	for i := range bugs {
		bugs[i].CommentCount = countMap[bugs[i].ID]
	}
}

func fetchBugs() ([]models.Bug, error) {
	if cached := utils.GetCache().Get(bugCacheKey); cached != nil {
		if bugs, ok := cached.([]models.Bug); ok {
			return bugs, nil
		}
	}

	var bugs []models.Bug
	if err := db.DB.Order("id ASC").Find(&bugs).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Set(bugCacheKey, bugs, 1*time.Minute)
	return bugs, nil
}

// List returns the filtered, sorted bug board.
func (h *BugHandler) List(c *gin.Context) {
	bugs, err := fetchBugs()
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load bugs")
		return
	}

	filters, sortKey := views.FromQuery(c.Request.URL.Query())
	board := views.Apply(bugs, filters, sortKey)
	fillBugCommentCounts(board)

	JSONOK(c, http.StatusOK, gin.H{"bugs": board})
}

// Detail returns one bug report with its comments and vote information.
func (h *BugHandler) Detail(c *gin.Context) {
	bid := c.Param("bid")

	var bug models.Bug
	if err := db.DB.Where("bid = ?", bid).First(&bug).Error; err != nil {
		JSONError(c, http.StatusNotFound, "bug not found")
		return
	}

	var comments []models.Comment
	db.DB.Preload("User").
		Where("item_type = ? AND item_id = ?", models.ItemTypeBug, bug.ID).
		Order("created_at ASC").
		Find(&comments)

	type renderedComment struct {
		models.Comment
		ContentHTML string `json:"content_html"`
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{
			Comment:     com,
			ContentHTML: string(utils.RenderMarkdown(com.Content)),
		}
	}

	breakdown, err := h.votes.Counts(votes.KindBug, bug.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to count votes")
		return
	}

	voteStatus := votes.None
	if user := CurrentUser(c); user != nil {
		if status, err := h.votes.StatusFor(votes.KindBug, bug.ID, user.ID); err == nil {
			voteStatus = status
		}
	}

	JSONOK(c, http.StatusOK, gin.H{
		"bug":              bug,
		"description_html": string(utils.RenderMarkdown(bug.Description)),
		"comments":         rendered,
		"vote_counts":      breakdown,
		"vote_status":      voteStatus,
	})
}

// Create submits a new bug report.
func (h *BugHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	title := c.PostForm("title")
	product := c.PostForm("product")

	if title == "" {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}
	if product == "" {
		JSONError(c, http.StatusBadRequest, "product is required")
		return
	}

	bug := models.Bug{
		Bid:              utils.RandStringBytesMaskImpr(8),
		UserID:           user.ID,
		Title:            title,
		Description:      c.PostForm("description"),
		CurrentSituation: c.PostForm("current_situation"),
		ExpectedBehavior: c.PostForm("expected_behavior"),
		URL:              c.PostForm("url"),
		Status:           models.StatusNew,
		Product:          product,
		Reporter:         user.Username,
		AttachmentURL:    c.PostForm("attachment_url"),
	}

	if err := db.DB.Create(&bug).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create bug")
		return
	}

	utils.GetCache().Delete(bugCacheKey)
	JSONOK(c, http.StatusOK, gin.H{"bug": bug})
}

// Update saves the edit form. Any signed-in user may edit.
func (h *BugHandler) Update(c *gin.Context) {
	bid := c.Param("bid")

	var bug models.Bug
	if err := db.DB.Where("bid = ?", bid).First(&bug).Error; err != nil {
		JSONError(c, http.StatusNotFound, "bug not found")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	bug.Title = title
	bug.Description = c.PostForm("description")
	bug.CurrentSituation = c.PostForm("current_situation")
	bug.ExpectedBehavior = c.PostForm("expected_behavior")
	bug.URL = c.PostForm("url")
	if product := c.PostForm("product"); product != "" {
		bug.Product = product
	}
	if attachment := c.PostForm("attachment_url"); attachment != "" {
		bug.AttachmentURL = attachment
	}

	if err := db.DB.Save(&bug).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update bug")
		return
	}

	utils.GetCache().Delete(bugCacheKey)
	JSONOK(c, http.StatusOK, gin.H{"bug": bug})
}

// UpdateStatus moves a bug through the status workflow.
func (h *BugHandler) UpdateStatus(c *gin.Context) {
	bid := c.Param("bid")
	status := c.PostForm("status")

	if !models.ValidStatus(status) {
		JSONError(c, http.StatusBadRequest, "invalid status")
		return
	}

	var bug models.Bug
	if err := db.DB.Where("bid = ?", bid).First(&bug).Error; err != nil {
		JSONError(c, http.StatusNotFound, "bug not found")
		return
	}

	if err := db.DB.Model(&bug).Update("status", status).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update status")
		return
	}

	utils.GetCache().Delete(bugCacheKey)
	bug.Status = status
	JSONOK(c, http.StatusOK, gin.H{"bug": bug})
}
