package models

import "time"

// Shipment carries both schema generations: older records used
// destination, newer ones delivery_date, so both are nullable.
type Shipment struct {
	ID              uint       `gorm:"column:id;primaryKey" json:"id"`
	Inventory       string     `gorm:"column:inventory;not null" json:"inventory"`
	Amount          int        `gorm:"column:amount;not null" json:"amount"`
	TransportMethod string     `gorm:"column:transport_method;not null" json:"transport_method"`
	ShipmentTime    string     `gorm:"column:shipment_time" json:"shipment_time"`
	Destination     *string    `gorm:"column:destination" json:"destination,omitempty"`
	DeliveryDate    *time.Time `gorm:"column:delivery_date" json:"delivery_date,omitempty"`
}

func (Shipment) TableName() string { return "shipments" }
