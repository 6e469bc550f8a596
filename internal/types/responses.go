package types

import (
	"time"

	"github.com/whyline-dev/whyline/internal/models"
)

// UserResponse is the public user object. Email is only populated on
// self-facing responses (register, login, me); everywhere else a user is
// nested as the reduced {id, username, created_at} shape.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RcaResponse struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Timeline    *string      `json:"timeline"`
	Owner       UserResponse `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RcaTreeResponse is an RCA plus its fully materialized why tree.
type RcaTreeResponse struct {
	RcaResponse
	Nodes []TreeNodeResponse `json:"nodes"`
}

type NodeResponse struct {
	ID        uint      `json:"id"`
	RcaID     uint      `json:"rca_id"`
	ParentID  *uint     `json:"parent_id"`
	NodeType  string    `json:"node_type"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TreeNodeResponse is a node carrying its children, each recursively in
// sibling order.
type TreeNodeResponse struct {
	NodeResponse
	Children []TreeNodeResponse `json:"children"`
}

func NewUserResponse(user models.User, includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}

	if includeEmail {
		resp.Email = user.Email
	}

	return resp
}

func NewRcaResponse(rca models.Rca) RcaResponse {
	return RcaResponse{
		ID:          rca.ID,
		Name:        rca.Name,
		Description: rca.Description,
		Timeline:    rca.Timeline,
		Owner:       NewUserResponse(rca.Owner, false),
		CreatedAt:   rca.CreatedAt,
		UpdatedAt:   rca.UpdatedAt,
	}
}

func NewNodeResponse(node models.WhyNode) NodeResponse {
	return NodeResponse{
		ID:        node.ID,
		RcaID:     node.RcaID,
		ParentID:  node.ParentID,
		NodeType:  node.NodeType,
		Content:   node.Content,
		Order:     node.Order,
		CreatedAt: node.CreatedAt,
		UpdatedAt: node.UpdatedAt,
	}
}
