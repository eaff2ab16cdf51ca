package models

import "time"

// Album groups gallery images
type Album struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	ImageCount  int       `json:"imageCount"` // Computed, no db tag
}

// GalleryItem is one published photo
type GalleryItem struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Category  string    `json:"category" db:"category"`
	Image     string    `json:"image" db:"image"`
	Order     int       `json:"order" db:"sort_order"`
	AlbumID   *int64    `json:"albumId,omitempty" db:"album_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CommitteeMember is a listed officer of the association
type CommitteeMember struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Designation string    `json:"designation" db:"designation"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// PaymentInfo is the single row of manual payment instructions shown to members
type PaymentInfo struct {
	ID         int64     `json:"id" db:"id"`
	BankInfo   string    `json:"bankInfo" db:"bank_info"`
	BkashInfo  string    `json:"bkashInfo" db:"bkash_info"`
	NagadInfo  string    `json:"nagadInfo" db:"nagad_info"`
	RocketInfo string    `json:"rocketInfo" db:"rocket_info"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
