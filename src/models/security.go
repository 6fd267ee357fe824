package models

import "time"

// Security is a tracked position. Ticker casing is whatever was first inserted.
type Security struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Ticker      string    `gorm:"size:32;not null;uniqueIndex" json:"ticker"`
	CompanyName string    `gorm:"size:255" json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Security) TableName() string { return "securities" }
