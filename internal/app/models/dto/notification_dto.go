package dto

// CreateNotificationRequest appends a notification. Admins may address any
// user; other callers always write to themselves.
type CreateNotificationRequest struct {
	UserID  int64  `json:"userId" binding:"omitempty,min=1"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required,notification_type"`
}
