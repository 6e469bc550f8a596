package models

const (
	NodeTypeWhy       = "why"
	NodeTypeRootCause = "root_cause"
)

// WhyNode is one entry in an RCA's reasoning tree. ParentID nil means the
// node hangs directly off the RCA. Order is the append rank among siblings
// sharing the same (rca, parent) pair; it is assigned at insert time and
// never renumbered, so deletes leave gaps.
type WhyNode struct {
	BaseModel

	RcaID    uint   `gorm:"not null;index"`
	ParentID *uint  `gorm:"index"`
	NodeType string `gorm:"size:20;not null;default:why"`
	Content  string `gorm:"type:text;not null"`
	Order    int    `gorm:"column:order;not null;default:0"`

	// Relationships
	Rca      Rca       `gorm:"foreignKey:RcaID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Children []WhyNode `gorm:"foreignKey:ParentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
