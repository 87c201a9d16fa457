package models

// Revenue is one row per calendar month, keyed by a short month code ("Jan").
type Revenue struct {
	Month   string `gorm:"size:4;uniqueIndex" json:"month"`
	Revenue int    `json:"revenue"`
}

func (Revenue) TableName() string { return "revenue" }
