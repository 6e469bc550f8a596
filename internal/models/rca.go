package models

type Rca struct {
	BaseModel

	Name        string  `gorm:"size:200;not null"`
	Description *string `gorm:"type:text"`
	Timeline    *string `gorm:"type:text"`
	OwnerID     uint    `gorm:"not null;index"`

	// Relationships
	Owner User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Nodes []WhyNode `gorm:"foreignKey:RcaID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
