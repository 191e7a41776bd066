package dtos

import "time"

type UserStatusRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=active suspended"`
}

type JobModerationRequest struct {
	Action string `json:"action"`
}

type UserCounts struct {
	Total      int64 `json:"total"`
	JobSeekers int64 `json:"jobSeekers"`
	Owners     int64 `json:"owners"`
	Admins     int64 `json:"admins"`
}

type JobCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Closed   int64 `json:"closed"`
}

type ApplicationCounts struct {
	Total int64 `json:"total"`
}

type AdminStats struct {
	Users        UserCounts        `json:"users"`
	Jobs         JobCounts         `json:"jobs"`
	Applications ApplicationCounts `json:"applications"`
}

// Activity is one entry of the admin activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	User      string    `json:"user,omitempty"`
	Job       string    `json:"job,omitempty"`
	Company   string    `json:"company,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
