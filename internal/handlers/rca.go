package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whyline-dev/whyline/db"
	"github.com/whyline-dev/whyline/internal/models"
	"github.com/whyline-dev/whyline/internal/tree"
	"github.com/whyline-dev/whyline/internal/types"
	"github.com/whyline-dev/whyline/internal/utils"
	"gorm.io/gorm"
)

type CreateRcaRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description"`
	Timeline    *string `json:"timeline"`
}

type UpdateRcaRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Timeline    *string `json:"timeline"`
}

// fetchOwnedRca resolves the :id path parameter to an RCA the current user
// owns, writing the error response itself on failure. A missing RCA is 404
// before ownership is ever evaluated; an RCA owned by someone else is 403
// with no content leaked.
func fetchOwnedRca(ctx *gin.Context) (models.Rca, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.Rca{}, false
	}

	rcaID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "RCA not found"})
		return models.Rca{}, false
	}

	var rca models.Rca

	if err := db.DB.Preload("Owner").First(&rca, rcaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "RCA not found"})
		} else {
			log.Printf("Failed to fetch RCA %d: %v", rcaID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return models.Rca{}, false
	}

	if rca.OwnerID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return models.Rca{}, false
	}

	return rca, true
}

func ListRcas(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var rcas []models.Rca

	if err := db.DB.Preload("Owner").Where("owner_id = ?", userID).Order("created_at DESC, id DESC").Find(&rcas).Error; err != nil {
		log.Printf("Failed to list RCAs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.RcaResponse, 0, len(rcas))

	for _, rca := range rcas {
		response = append(response, types.NewRcaResponse(rca))
	}

	ctx.JSON(http.StatusOK, gin.H{"rcas": response})
}

func CreateRca(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateRcaRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required and must be at most 200 characters"})
		return
	}

	rca := models.Rca{
		Name:        req.Name,
		Description: req.Description,
		Timeline:    req.Timeline,
		OwnerID:     userID,
	}

	if err := db.DB.Create(&rca).Error; err != nil {
		log.Printf("Failed to create RCA: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Preload("Owner").First(&rca, rca.ID).Error; err != nil {
		log.Printf("Failed to reload RCA %d: %v", rca.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"rca": types.NewRcaResponse(rca)})
}

func GetRca(ctx *gin.Context) {
	rca, ok := fetchOwnedRca(ctx)

	if !ok {
		return
	}

	var nodes []models.WhyNode

	if err := db.DB.Where("rca_id = ?", rca.ID).Find(&nodes).Error; err != nil {
		log.Printf("Failed to load nodes for RCA %d: %v", rca.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := types.RcaTreeResponse{
		RcaResponse: types.NewRcaResponse(rca),
		Nodes:       tree.Render(nodes),
	}

	ctx.JSON(http.StatusOK, gin.H{"rca": response})
}

func UpdateRca(ctx *gin.Context) {
	rca, ok := fetchOwnedRca(ctx)

	if !ok {
		return
	}

	var req UpdateRcaRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name must be between 1 and 200 characters"})
		return
	}

	// Absent fields stay untouched; ownership is never updatable.
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
		rca.Name = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		rca.Description = req.Description
	}
	if req.Timeline != nil {
		updates["timeline"] = *req.Timeline
		rca.Timeline = req.Timeline
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&rca).Updates(updates).Error; err != nil {
			log.Printf("Failed to update RCA %d: %v", rca.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"rca": types.NewRcaResponse(rca)})
}

func DeleteRca(ctx *gin.Context) {
	rca, ok := fetchOwnedRca(ctx)

	if !ok {
		return
	}

	// All node rows go with the RCA in one transaction; a failure rolls the
	// whole cascade back.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rca_id = ?", rca.ID).Delete(&models.WhyNode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Rca{}, rca.ID).Error
	})

	if err != nil {
		log.Printf("Failed to delete RCA %d: %v", rca.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "RCA deleted successfully"})
}
