package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Game struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"` // remaining stock, never negative
	GenreID     uint            `json:"genre_id"`
	Genre       Genre           `gorm:"foreignKey:GenreID" json:"genre"`
	Tags        []Tag           `gorm:"many2many:game_tags;" json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Genre struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
