package models

import "time"

// PredictionRecord is one persisted prediction or ingested training
// outcome. Success must equal round(Score) >= 70 at creation time.
type PredictionRecord struct {
	ID                   uint      `gorm:"column:id;primaryKey" json:"id"`
	ItemText             string    `gorm:"column:item_text;not null" json:"item_text"`
	Seasonality          string    `gorm:"column:seasonality;not null" json:"seasonality"`
	Price                float64   `gorm:"column:price;not null" json:"price"`
	Marketing            float64   `gorm:"column:marketing;not null" json:"marketing"`
	DistributionChannels float64   `gorm:"column:distribution_channels;not null" json:"distribution_channels"`
	Category             string    `gorm:"column:category;index" json:"category"`
	Success              bool      `gorm:"column:success;index" json:"success"`
	Score                float64   `gorm:"column:score" json:"score"`
	CreatedAt            time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (PredictionRecord) TableName() string { return "prediction_records" }
