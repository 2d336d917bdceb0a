package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusUpcoming = "upcoming"
	StatusPaid     = "paid"
	StatusOverdue  = "overdue"
)

const (
	FrequencyOneTime = "one_time"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Display hint only; recurring payments are re-entered manually.
var frequencyIntervalDays = map[string]int{
	FrequencyOneTime: 0,
	FrequencyWeekly:  7,
	FrequencyMonthly: 30,
	FrequencyYearly:  365,
}

func FrequencyIntervalDays(frequency string) int {
	return frequencyIntervalDays[frequency]
}

type Payment struct {
	ID              string           `gorm:"primaryKey" json:"id"`
	OwnerID         string           `gorm:"not null;index" json:"owner_id"`
	Title           string           `gorm:"not null" json:"title"`
	Amount          decimal.Decimal  `gorm:"type:text;not null" json:"amount"`
	DueDate         time.Time        `gorm:"not null;index" json:"due_date"`
	Category        string           `gorm:"not null;default:other" json:"category"`
	Frequency       string           `gorm:"not null;default:one_time" json:"frequency"`
	Notes           string           `json:"notes"`
	Status          string           `gorm:"not null;default:upcoming;index" json:"status"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	ReminderEnabled bool             `gorm:"not null;default:true" json:"reminder_enabled"`
	ReminderTypes   ReminderTypeList `gorm:"type:text" json:"reminder_types"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updated_at"`
	IsSynced        bool             `gorm:"not null;default:false" json:"is_synced"`
	IsDeleted       bool             `gorm:"not null;default:false;index" json:"is_deleted"`
}
