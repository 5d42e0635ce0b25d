package activitylog

import "time"

type ActivityLogResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityLogsResponse struct {
	ActivityLogs []ActivityLogResponse `json:"activity_logs"`
}
