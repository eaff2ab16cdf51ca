package dto

import "github.com/yigit/alumnihub/internal/app/models"

// GalleryItemRequest creates a gallery photo
type GalleryItemRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Category string `json:"category" binding:"required"`
	Image    string `json:"image" binding:"required,url"`
	Order    int    `json:"order" binding:"min=0"`
	AlbumID  *int64 `json:"albumId" binding:"omitempty,min=1"`
}

// UpdateGalleryItemRequest is a partial gallery update
type UpdateGalleryItemRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Category *string `json:"category"`
	Image    *string `json:"image" binding:"omitempty,url"`
	Order    *int    `json:"order" binding:"omitempty,min=0"`
	AlbumID  *int64  `json:"albumId" binding:"omitempty,min=1"`
}

// GalleryQuery filters the public gallery
type GalleryQuery struct {
	AlbumID int64 `form:"albumId" binding:"omitempty,min=1"`
	Limit   int   `form:"limit" binding:"omitempty,min=1,max=100"`
}

// AlbumRequest creates or replaces album metadata
type AlbumRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// CommitteeMemberRequest creates or replaces a committee entry
type CommitteeMemberRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Designation string `json:"designation" binding:"required,max=100"`
	Image       string `json:"image" binding:"omitempty,url"`
	Order       int    `json:"order" binding:"min=0"`
}

// PaymentInfoRequest replaces the payment instructions
type PaymentInfoRequest struct {
	BankInfo   string `json:"bankInfo"`
	BkashInfo  string `json:"bkashInfo"`
	NagadInfo  string `json:"nagadInfo"`
	RocketInfo string `json:"rocketInfo"`
}

// UploadResponse returns the public URL of a stored file
type UploadResponse struct {
	URL string `json:"url"`
}

// AlbumDetailResponse is an album with its images
type AlbumDetailResponse struct {
	models.Album
	Images []*models.GalleryItem `json:"images"`
}
