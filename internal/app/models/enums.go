package models

// Role is the coarse access level of a user
type Role string

const (
	RoleAlumni Role = "ALUMNI"
	RoleAdmin  Role = "ADMIN"
)

// UserStatus drives dashboard access gating
type UserStatus string

const (
	UserStatusPending        UserStatus = "PENDING"
	UserStatusInProgress     UserStatus = "INPROGRESS"
	UserStatusPaymentPending UserStatus = "PAYMENT_PENDING"
	UserStatusVerified       UserStatus = "VERIFIED"
	UserStatusRejected       UserStatus = "REJECTED"
)

// MembershipType classifies tiers and profiles
type MembershipType string

const (
	MembershipTypeGeneral       MembershipType = "GENERAL"
	MembershipTypeDonor         MembershipType = "DONOR"
	MembershipTypeLifetimeDonor MembershipType = "LIFETIME_DONOR"
)

// BillingPeriod is the renewal cadence of a tier
type BillingPeriod string

const (
	BillingPeriodWeekly  BillingPeriod = "WEEKLY"
	BillingPeriodMonthly BillingPeriod = "MONTHLY"
	BillingPeriodYearly  BillingPeriod = "YEARLY"
	BillingPeriodOneTime BillingPeriod = "ONE_TIME"
)

// MembershipStatus is the lifecycle state of a membership row and the
// mirrored status on the profile
type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "PENDING"
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusExpired   MembershipStatus = "EXPIRED"
	MembershipStatusCancelled MembershipStatus = "CANCELLED"
)

// PaymentStatus is the review state of an event payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// PaymentMethod lists the manual payment channels accepted as proof
type PaymentMethod string

const (
	PaymentMethodBank   PaymentMethod = "BANK"
	PaymentMethodBkash  PaymentMethod = "BKASH"
	PaymentMethodNagad  PaymentMethod = "NAGAD"
	PaymentMethodRocket PaymentMethod = "ROCKET"
)

// NotificationType groups notifications in the feed
type NotificationType string

const (
	NotificationTypeSystem     NotificationType = "SYSTEM"
	NotificationTypeMembership NotificationType = "MEMBERSHIP"
	NotificationTypeEvent      NotificationType = "EVENT"
)

// AdminAction is the generic membership status override issued from the back-office
type AdminAction string

const (
	AdminActionActivate AdminAction = "ACTIVATE"
	AdminActionCancel   AdminAction = "CANCEL"
	AdminActionPending  AdminAction = "PENDING"
)

// PaymentDecision is the admin verdict on a pending event payment
type PaymentDecision string

const (
	PaymentDecisionApprove PaymentDecision = "APPROVE"
	PaymentDecisionReject  PaymentDecision = "REJECT"
)
