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

type CreateNodeRequest struct {
	ParentID *uint  `json:"parent_id"`
	NodeType string `json:"node_type" binding:"omitempty,oneof=why root_cause"`
	Content  string `json:"content" binding:"required"`
}

type UpdateNodeRequest struct {
	Content  *string `json:"content" binding:"omitempty,min=1"`
	NodeType *string `json:"node_type" binding:"omitempty,oneof=why root_cause"`
}

// fetchOwnedNode resolves the :id path parameter to a node whose RCA the
// current user owns. Same error discipline as fetchOwnedRca: missing node is
// 404, someone else's node is 403.
func fetchOwnedNode(ctx *gin.Context) (models.WhyNode, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.WhyNode{}, false
	}

	nodeID, err := utils.ParseIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		return models.WhyNode{}, false
	}

	var node models.WhyNode

	if err := db.DB.Preload("Rca").First(&node, nodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		} else {
			log.Printf("Failed to fetch node %d: %v", nodeID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return models.WhyNode{}, false
	}

	if node.Rca.OwnerID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return models.WhyNode{}, false
	}

	return node, true
}

func CreateNode(ctx *gin.Context) {
	rca, ok := fetchOwnedRca(ctx)

	if !ok {
		return
	}

	var req CreateNodeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required and node_type must be 'why' or 'root_cause'"})
		return
	}

	nodeType := req.NodeType

	if nodeType == "" {
		nodeType = models.NodeTypeWhy
	}

	if req.ParentID == nil && nodeType != models.NodeTypeWhy {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Top-level nodes must be of type 'why'"})
		return
	}

	if req.ParentID != nil {
		var parent models.WhyNode

		if err := db.DB.Where("id = ? AND rca_id = ?", *req.ParentID, rca.ID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Parent node not found in this RCA"})
			} else {
				log.Printf("Failed to fetch parent node %d: %v", *req.ParentID, err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}
	}

	node := models.WhyNode{
		RcaID:    rca.ID,
		ParentID: req.ParentID,
		NodeType: nodeType,
		Content:  req.Content,
	}

	// The append rank is the sibling count at insert time; counting and
	// inserting share one transaction so the pair is a single atomic unit.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		siblings := tx.Model(&models.WhyNode{}).Where("rca_id = ?", rca.ID)

		if req.ParentID == nil {
			siblings = siblings.Where("parent_id IS NULL")
		} else {
			siblings = siblings.Where("parent_id = ?", *req.ParentID)
		}

		var count int64

		if err := siblings.Count(&count).Error; err != nil {
			return err
		}

		node.Order = int(count)

		return tx.Create(&node).Error
	})

	if err != nil {
		log.Printf("Failed to create node in RCA %d: %v", rca.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"node": types.NewNodeResponse(node)})
}

func UpdateNode(ctx *gin.Context) {
	node, ok := fetchOwnedNode(ctx)

	if !ok {
		return
	}

	var req UpdateNodeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content must be non-empty and node_type must be 'why' or 'root_cause'"})
		return
	}

	if req.NodeType != nil && node.ParentID == nil && *req.NodeType != models.NodeTypeWhy {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Top-level nodes must be of type 'why'"})
		return
	}

	updates := make(map[string]interface{})

	if req.Content != nil {
		updates["content"] = *req.Content
		node.Content = *req.Content
	}
	if req.NodeType != nil {
		updates["node_type"] = *req.NodeType
		node.NodeType = *req.NodeType
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&node).Updates(updates).Error; err != nil {
			log.Printf("Failed to update node %d: %v", node.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"node": types.NewNodeResponse(node)})
}

func DeleteNode(ctx *gin.Context) {
	node, ok := fetchOwnedNode(ctx)

	if !ok {
		return
	}

	// Collect the subtree from the RCA's full node set and remove it in one
	// transaction; either the whole subtree goes or none of it does.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var nodes []models.WhyNode

		if err := tx.Where("rca_id = ?", node.RcaID).Find(&nodes).Error; err != nil {
			return err
		}

		ids := tree.SubtreeIDs(nodes, node.ID)

		return tx.Where("id IN ?", ids).Delete(&models.WhyNode{}).Error
	})

	if err != nil {
		log.Printf("Failed to delete node %d: %v", node.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Node deleted successfully"})
}
