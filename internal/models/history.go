package models

import "time"

type HistoryItem struct {
	ID        string    `json:"id"`
	Bangla    string    `json:"bangla"`
	Korean    string    `json:"korean"`
	Timestamp time.Time `json:"timestamp"`
	Examples  []Example `json:"examples,omitempty"`
}
