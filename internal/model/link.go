package model

import "time"

// Link представляет запись короткой ссылки в таблице links.
// Code уникален среди живых записей (deleted_at IS NULL).
type Link struct {
	ID            uint       `json:"-"`
	Code          string     `json:"code"`
	TargetURL     string     `json:"target_url"`
	TotalClicks   int64      `json:"total_clicks"`
	LastClickedAt *time.Time `json:"last_clicked_at"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"-"`
}
