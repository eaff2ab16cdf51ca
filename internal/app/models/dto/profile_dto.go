package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// SocialLinksRequest holds optional social profile URLs
type SocialLinksRequest struct {
	Facebook  string `json:"facebook" form:"facebook" binding:"omitempty,url"`
	LinkedIn  string `json:"linkedin" form:"linkedin" binding:"omitempty,url"`
	Twitter   string `json:"twitter" form:"twitter" binding:"omitempty,url"`
	Instagram string `json:"instagram" form:"instagram" binding:"omitempty,url"`
}

// ProfileRequest is the profile submission; accepted as JSON or multipart form.
// Multipart submissions may carry "photoFile" and "signatureFile" parts which
// are uploaded and override Photo and Signature.
type ProfileRequest struct {
	Name             string             `json:"name" form:"name" binding:"omitempty,min=2,max=100"`
	FatherName       string             `json:"fatherName" form:"fatherName" binding:"required"`
	MotherName       string             `json:"motherName" form:"motherName" binding:"required"`
	PresentAddress   string             `json:"presentAddress" form:"presentAddress" binding:"required"`
	PermanentAddress string             `json:"permanentAddress" form:"permanentAddress" binding:"required"`
	MobileNumber     string             `json:"mobileNumber" form:"mobileNumber" binding:"required,phone"`
	Birthday         *time.Time         `json:"birthday" form:"birthday" time_format:"2006-01-02"`
	Nationality      string             `json:"nationality" form:"nationality" binding:"required"`
	Religion         string             `json:"religion" form:"religion"`
	SSCRegNumber     string             `json:"sscRegNumber" form:"sscRegNumber" binding:"required"`
	SSCRollNumber    string             `json:"sscRollNumber" form:"sscRollNumber" binding:"required"`
	PassingYear      int                `json:"passingYear" form:"passingYear" binding:"required,min=1900,max=2100"`
	Occupation       string             `json:"occupation" form:"occupation" binding:"required"`
	EmployerName     string             `json:"employerName" form:"employerName"`
	Designation      string             `json:"designation" form:"designation"`
	EmployerAddress  string             `json:"employerAddress" form:"employerAddress"`
	Reference        string             `json:"reference" form:"reference"`
	Signature        string             `json:"signature" form:"signature" binding:"omitempty,url"`
	Photo            string             `json:"photo" form:"photo" binding:"omitempty,url"`
	SocialLinks      SocialLinksRequest `json:"socialLinks"`
}

// ProfileResponse is the caller's own account view
type ProfileResponse struct {
	User       UserResponse        `json:"user"`
	Profile    *models.Profile     `json:"profile,omitempty"`
	Membership *MembershipResponse `json:"membership,omitempty"`
}

// AlumniResponse is one entry of the verified alumni directory
type AlumniResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Image        *string            `json:"image,omitempty"`
	PassingYear  int                `json:"passingYear"`
	Occupation   string             `json:"occupation"`
	Designation  *string            `json:"designation,omitempty"`
	EmployerName *string            `json:"employerName,omitempty"`
	SocialLinks  models.SocialLinks `json:"socialLinks"`
}

// AlumniListResponse is a page of the alumni directory
type AlumniListResponse struct {
	Alumni     []AlumniResponse `json:"alumni"`
	Pagination PaginationInfo   `json:"pagination"`
}

// NewAlumniResponse projects a verified user with profile into the directory view
func NewAlumniResponse(u *models.User) AlumniResponse {
	resp := AlumniResponse{ID: u.ID, Name: u.Name, Image: u.Image}
	if u.Profile != nil {
		resp.PassingYear = u.Profile.PassingYear
		resp.Occupation = u.Profile.Occupation
		resp.Designation = u.Profile.Designation
		resp.EmployerName = u.Profile.EmployerName
		resp.SocialLinks = u.Profile.SocialLinks
		if u.Profile.Photo != nil {
			resp.Image = u.Profile.Photo
		}
	}
	return resp
}
