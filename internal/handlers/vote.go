package handlers

import (
	"net/http"

	"feedboard/internal/db"
	"feedboard/internal/models"
	"feedboard/internal/utils"
	"feedboard/internal/votes"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *votes.Service
}

func NewVoteHandler(voteService *votes.Service) *VoteHandler {
	return &VoteHandler{votes: voteService}
}

// itemAggregate reads the item's current vote counter, which seeds the
// read-modify-write in the cast sequence.
func itemAggregate(kind votes.ItemKind, itemID uint) (int, error) {
	if kind == votes.KindBug {
		var bug models.Bug
		if err := db.DB.First(&bug, itemID).Error; err != nil {
			return 0, err
		}
		return bug.Votes, nil
	}
	var feature models.Feature
	if err := db.DB.First(&feature, itemID).Error; err != nil {
		return 0, err
	}
	return feature.Votes, nil
}

// Cast handles an up/down vote click: same direction again removes the vote,
// the opposite direction flips it.
func (h *VoteHandler) Cast(c *gin.Context) {
	user := CurrentUser(c)

	kind, ok := votes.ParseKind(c.Param("type"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "unknown item type")
		return
	}
	itemID := uint(utils.StringToInt(c.Param("id")))
	if itemID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	direction, ok := votes.ParseDirection(c.PostForm("direction"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "direction must be up or down")
		return
	}

	aggregate, err := itemAggregate(kind, itemID)
	if err != nil {
		JSONError(c, http.StatusNotFound, "item not found")
		return
	}

	status, err := h.votes.StatusFor(kind, itemID, user.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to read vote")
		return
	}

	result, err := h.votes.Cast(kind, itemID, user.ID, direction, aggregate, status)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	// The aggregate feeds the board sort, so the cached record set is stale.
	utils.GetCache().Delete(featureCacheKey)
	utils.GetCache().Delete(bugCacheKey)

	JSONOK(c, http.StatusOK, gin.H{"votes": result.Aggregate, "vote_status": result.Status})
}

// Status returns the caller's current vote on an item.
func (h *VoteHandler) Status(c *gin.Context) {
	user := CurrentUser(c)

	kind, ok := votes.ParseKind(c.Param("type"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "unknown item type")
		return
	}
	itemID := uint(utils.StringToInt(c.Param("id")))
	if itemID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	status, err := h.votes.StatusFor(kind, itemID, user.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to read vote")
		return
	}

	JSONOK(c, http.StatusOK, gin.H{"vote_status": status})
}

// Counts returns the ledger tally by direction ("Most Upvoted" badges).
func (h *VoteHandler) Counts(c *gin.Context) {
	kind, ok := votes.ParseKind(c.Param("type"))
	if !ok {
		JSONError(c, http.StatusBadRequest, "unknown item type")
		return
	}
	itemID := uint(utils.StringToInt(c.Param("id")))
	if itemID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	breakdown, err := h.votes.Counts(kind, itemID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to count votes")
		return
	}

	JSONOK(c, http.StatusOK, gin.H{"vote_counts": breakdown})
}
