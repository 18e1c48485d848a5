package models

import "time"

type Activity struct {
	ID        string    `json:"id"`
	Bangla    string    `json:"bangla"`
	Korean    string    `json:"korean"`
	Timestamp time.Time `json:"timestamp"`
}

type AdminOverview struct {
	TotalWords      int64      `json:"totalWords"`
	PendingRequests int64      `json:"pendingRequests"`
	ActiveUsers     int64      `json:"activeUsers"`
	LastUpdate      time.Time  `json:"lastUpdate"`
	RecentActivity  []Activity `json:"recentActivity"`
}
