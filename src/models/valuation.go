package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valuation is the worth of a tracked security on a given date.
type Valuation struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SecurityID uint            `gorm:"not null;uniqueIndex:idx_valuations_security_date" json:"securityId"`
	Date       time.Time       `gorm:"type:date;not null;uniqueIndex:idx_valuations_security_date" json:"date"`
	Value      decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"value"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	Security *Security `gorm:"foreignKey:SecurityID;constraint:OnDelete:CASCADE" json:"security,omitempty"`
}

func (Valuation) TableName() string { return "valuations" }
