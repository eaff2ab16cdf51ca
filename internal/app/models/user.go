package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64      `json:"id" db:"id" example:"1"`
	Email     string     `json:"email" db:"email" example:"alumni@example.com"`
	Password  *string    `json:"-" db:"password"` // nil for accounts created through Google sign-in
	Name      string     `json:"name" db:"name" example:"Rahim Uddin"`
	Image     *string    `json:"image,omitempty" db:"image"`
	Role      Role       `json:"role" db:"role" example:"ALUMNI"`
	Status    UserStatus `json:"status" db:"status" example:"PENDING"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	Profile   *Profile   `json:"profile,omitempty"` // Relation, no db tag
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SocialLinks is stored as jsonb on the profile
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Profile is the personal, academic and professional record attached 1:1 to a user
type Profile struct {
	ID               int64            `json:"id" db:"id"`
	UserID           int64            `json:"userId" db:"user_id"`
	FatherName       string           `json:"fatherName" db:"father_name"`
	MotherName       string           `json:"motherName" db:"mother_name"`
	PresentAddress   string           `json:"presentAddress" db:"present_address"`
	PermanentAddress string           `json:"permanentAddress" db:"permanent_address"`
	MobileNumber     string           `json:"mobileNumber" db:"mobile_number"`
	Birthday         *time.Time       `json:"birthday,omitempty" db:"birthday"`
	Nationality      string           `json:"nationality" db:"nationality"`
	Religion         *string          `json:"religion,omitempty" db:"religion"`
	SSCRegNumber     string           `json:"sscRegNumber" db:"ssc_reg_number"`
	SSCRollNumber    string           `json:"sscRollNumber" db:"ssc_roll_number"`
	PassingYear      int              `json:"passingYear" db:"passing_year"`
	Occupation       string           `json:"occupation" db:"occupation"`
	EmployerName     *string          `json:"employerName,omitempty" db:"employer_name"`
	Designation      *string          `json:"designation,omitempty" db:"designation"`
	EmployerAddress  *string          `json:"employerAddress,omitempty" db:"employer_address"`
	Reference        *string          `json:"reference,omitempty" db:"reference"`
	Signature        *string          `json:"signature,omitempty" db:"signature"`
	Photo            *string          `json:"photo,omitempty" db:"photo"`
	SocialLinks      SocialLinks      `json:"socialLinks" db:"social_links"`
	MembershipType   MembershipType   `json:"membershipType" db:"membership_type"`
	MembershipStatus MembershipStatus `json:"membershipStatus" db:"membership_status"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}
