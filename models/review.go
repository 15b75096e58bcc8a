package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_review_game_user" json:"game_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_review_game_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
