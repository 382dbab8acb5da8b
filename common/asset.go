package common

import (
	"time"

	"github.com/guregu/null/v5"
)

// Asset is an inventory record for tracked equipment.
type Asset struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string      `gorm:"type:text;not null" json:"name"`
	AssetTag     null.String `gorm:"column:asset_tag;type:text" json:"asset_tag"`
	SerialNumber null.String `gorm:"column:serial_number;type:text" json:"serial_number"`
	AssignedTo   null.String `gorm:"column:assigned_to;type:text" json:"assigned_to"`
	Notes        null.String `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a Asset) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return a.ID, true
	case "name":
		return a.Name, true
	case "asset_tag":
		return a.AssetTag, true
	case "serial_number":
		return a.SerialNumber, true
	case "assigned_to":
		return a.AssignedTo, true
	case "notes":
		return a.Notes, true
	case "created_at":
		return a.CreatedAt, true
	}
	return nil, false
}
