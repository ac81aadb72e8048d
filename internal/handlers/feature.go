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

const featureCacheKey = "board:features"

type FeatureHandler struct {
	votes *votes.Service
}

func NewFeatureHandler(voteService *votes.Service) *FeatureHandler {
	return &FeatureHandler{votes: voteService}
}

// fillFeatureCommentCounts batch-fills the comment count for a list of features.
func fillFeatureCommentCounts(features []models.Feature) {
	if len(features) == 0 {
		return
	}

	itemIDs := make([]uint, len(features))
	for i, f := range features {
		itemIDs[i] = f.ID
	}

	type CountResult struct {
		ItemID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("item_id, COUNT(*) as count").
		Where("item_type = ? AND item_id IN ?", models.ItemTypeFeature, itemIDs).
		Group("item_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.ItemID] = r.Count
	}

	for i := range features {
		features[i].CommentCount = countMap[features[i].ID]
	}
}

// fetchFeatures loads all live (non-deleted) features, with a short cache so
// repeated board loads don't hammer the store. The derived view is computed
// per request from this full set.
func fetchFeatures() ([]models.Feature, error) {
	if cached := utils.GetCache().Get(featureCacheKey); cached != nil {
		if features, ok := cached.([]models.Feature); ok {
			return features, nil
		}
	}

	var features []models.Feature
	if err := db.DB.Where("deleted_at IS NULL").Order("id ASC").Find(&features).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Set(featureCacheKey, features, 1*time.Minute)
	return features, nil
}

// List returns the filtered, sorted feature board.
func (h *FeatureHandler) List(c *gin.Context) {
	features, err := fetchFeatures()
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load features")
		return
	}

	filters, sortKey := views.FromQuery(c.Request.URL.Query())
	board := views.Apply(features, filters, sortKey)
	fillFeatureCommentCounts(board)

	JSONOK(c, http.StatusOK, gin.H{"features": board})
}

// Graveyard lists soft-deleted features, newest removal first.
func (h *FeatureHandler) Graveyard(c *gin.Context) {
	var features []models.Feature
	if err := db.DB.Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&features).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load graveyard")
		return
	}
	JSONOK(c, http.StatusOK, gin.H{"features": features})
}

// Detail returns one feature with rendered markdown, its comments, the
// ledger vote breakdown and the caller's own vote status.
func (h *FeatureHandler) Detail(c *gin.Context) {
	fid := c.Param("fid")

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	var comments []models.Comment
	db.DB.Preload("User").
		Where("item_type = ? AND item_id = ?", models.ItemTypeFeature, feature.ID).
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

	// Ledger tally for the breakdown view. Shown alongside the aggregate
	// counter; the two are not reconciled.
	breakdown, err := h.votes.Counts(votes.KindFeature, feature.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to count votes")
		return
	}

	voteStatus := votes.None
	if user := CurrentUser(c); user != nil {
		if status, err := h.votes.StatusFor(votes.KindFeature, feature.ID, user.ID); err == nil {
			voteStatus = status
		}
	}

	JSONOK(c, http.StatusOK, gin.H{
		"feature":          feature,
		"description_html": string(utils.RenderMarkdown(feature.Description)),
		"comments":         rendered,
		"vote_counts":      breakdown,
		"vote_status":      voteStatus,
	})
}

// Create submits a new feature request.
func (h *FeatureHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	title := c.PostForm("title")
	description := c.PostForm("description")
	product := c.PostForm("product")

	if title == "" {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}
	if product == "" {
		JSONError(c, http.StatusBadRequest, "product is required")
		return
	}

	feature := models.Feature{
		Fid:             utils.RandStringBytesMaskImpr(8),
		UserID:          user.ID,
		Title:           title,
		Description:     description,
		Status:          models.StatusNew,
		Product:         product,
		Location:        c.PostForm("location"),
		ExperimentOwner: c.PostForm("experiment_owner"),
		Reporter:        user.Username,
		AttachmentURL:   c.PostForm("attachment_url"),
	}

	if err := db.DB.Create(&feature).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to create feature")
		return
	}

	utils.GetCache().Delete(featureCacheKey)
	JSONOK(c, http.StatusOK, gin.H{"feature": feature})
}

// Update saves the edit form. Any signed-in user may edit.
func (h *FeatureHandler) Update(c *gin.Context) {
	fid := c.Param("fid")

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	feature.Title = title
	feature.Description = c.PostForm("description")
	if product := c.PostForm("product"); product != "" {
		feature.Product = product
	}
	feature.Location = c.PostForm("location")
	feature.ExperimentOwner = c.PostForm("experiment_owner")
	if attachment := c.PostForm("attachment_url"); attachment != "" {
		feature.AttachmentURL = attachment
	}

	if err := db.DB.Save(&feature).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update feature")
		return
	}

	utils.GetCache().Delete(featureCacheKey)
	JSONOK(c, http.StatusOK, gin.H{"feature": feature})
}

// UpdateStatus moves a feature through the status workflow.
func (h *FeatureHandler) UpdateStatus(c *gin.Context) {
	fid := c.Param("fid")
	status := c.PostForm("status")

	if !models.ValidStatus(status) {
		JSONError(c, http.StatusBadRequest, "invalid status")
		return
	}

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	if err := db.DB.Model(&feature).Update("status", status).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to update status")
		return
	}

	utils.GetCache().Delete(featureCacheKey)
	feature.Status = status
	JSONOK(c, http.StatusOK, gin.H{"feature": feature})
}

// Delete moves a feature to the graveyard. Its comments and votes stay put.
func (h *FeatureHandler) Delete(c *gin.Context) {
	fid := c.Param("fid")

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	now := time.Now()
	if err := db.DB.Model(&feature).Update("deleted_at", &now).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to delete feature")
		return
	}

	utils.GetCache().Delete(featureCacheKey)
	JSONOK(c, http.StatusOK, nil)
}

// Restore brings a feature back from the graveyard.
func (h *FeatureHandler) Restore(c *gin.Context) {
	fid := c.Param("fid")

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	if err := db.DB.Model(&feature).Update("deleted_at", nil).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to restore feature")
		return
	}

	utils.GetCache().Delete(featureCacheKey)
	JSONOK(c, http.StatusOK, nil)
}

// Purge permanently removes a graveyard feature.
func (h *FeatureHandler) Purge(c *gin.Context) {
	fid := c.Param("fid")

	var feature models.Feature
	if err := db.DB.Where("fid = ?", fid).First(&feature).Error; err != nil {
		JSONError(c, http.StatusNotFound, "feature not found")
		return
	}

	if feature.DeletedAt == nil {
		JSONError(c, http.StatusBadRequest, "feature is not in the graveyard")
		return
	}

	if err := db.DB.Delete(&feature).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to purge feature")
		return
	}

	JSONOK(c, http.StatusOK, nil)
}
