package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// RejectUserRequest carries the mandatory rejection reason
type RejectUserRequest struct {
	Reason string `json:"reason"`
}

// AdminMembershipActionRequest is the back-office membership override
type AdminMembershipActionRequest struct {
	Action string `json:"action" binding:"required,admin_action"`
}

// UserListQuery filters the admin user list
type UserListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING INPROGRESS PAYMENT_PENDING VERIFIED REJECTED"`
	Search string `form:"search"`
}

// AdminUserResponse summarises a user for the back-office
type AdminUserResponse struct {
	ID               int64                   `json:"id"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	Role             models.Role             `json:"role"`
	Status           models.UserStatus       `json:"status"`
	CreatedAt        time.Time               `json:"createdAt"`
	MembershipType   models.MembershipType   `json:"membershipType,omitempty"`
	MembershipStatus models.MembershipStatus `json:"membershipStatus,omitempty"`
	Profile          *models.Profile         `json:"profile,omitempty"`
	Membership       *MembershipResponse     `json:"membership,omitempty"`
}

// AdminUserListResponse is a page of users
type AdminUserListResponse struct {
	Users      []AdminUserResponse `json:"users"`
	Pagination PaginationInfo      `json:"pagination"`
}
