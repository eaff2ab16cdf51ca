// Package auth holds the declarative authorization policy consulted before
// every authenticated handler runs.
package auth

import (
	"github.com/yigit/alumnihub/internal/app/models"
)

// Resource names a protected entity
type Resource string

const (
	ResourceUser           Resource = "user"
	ResourceProfile        Resource = "profile"
	ResourceMembership     Resource = "membership"
	ResourceMembershipTier Resource = "membership_tier"
	ResourceEvent          Resource = "event"
	ResourceEventPayment   Resource = "event_payment"
	ResourceNotification   Resource = "notification"
	ResourceGallery        Resource = "gallery"
	ResourceAlbum          Resource = "album"
	ResourceCommittee      Resource = "committee"
	ResourcePaymentInfo    Resource = "payment_info"
	ResourceUpload         Resource = "upload"
	ResourceAlumni         Resource = "alumni"
)

// Action names an operation on a resource
type Action string

const (
	ActionRead             Action = "read"
	ActionList             Action = "list"
	ActionCreate           Action = "create"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionApply            Action = "apply"
	ActionCancel           Action = "cancel"
	ActionRenew            Action = "renew"
	ActionJoin             Action = "join"
	ActionLeave            Action = "leave"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionVerify           Action = "verify"
	ActionUpdateMembership Action = "update_membership"
	ActionMarkRead         Action = "mark_read"
	ActionSubscribe        Action = "subscribe"
)

// Rule grants an action on a resource to a set of roles
type Rule struct {
	Resource Resource
	Action   Action
	Roles    []models.Role
}

type ruleKey struct {
	resource Resource
	action   Action
	role     models.Role
}

// Policy is an immutable lookup built from a rule list. Anything not granted is denied.
type Policy struct {
	grants map[ruleKey]struct{}
}

// NewPolicy builds a policy from rules
func NewPolicy(rules []Rule) *Policy {
	p := &Policy{grants: make(map[ruleKey]struct{}, len(rules)*2)}
	for _, r := range rules {
		for _, role := range r.Roles {
			p.grants[ruleKey{r.Resource, r.Action, role}] = struct{}{}
		}
	}
	return p
}

// Allows reports whether role may perform action on resource
func (p *Policy) Allows(resource Resource, action Action, role models.Role) bool {
	if p == nil {
		return false
	}
	_, ok := p.grants[ruleKey{resource, action, role}]
	return ok
}

var (
	anyone = []models.Role{models.RoleAlumni, models.RoleAdmin}
	admins = []models.Role{models.RoleAdmin}
)

// DefaultRules is the portal's access table
var DefaultRules = []Rule{
	{ResourceProfile, ActionRead, anyone},
	{ResourceProfile, ActionUpdate, anyone},

	{ResourceMembership, ActionRead, anyone},
	{ResourceMembership, ActionApply, anyone},
	{ResourceMembership, ActionCancel, anyone},
	{ResourceMembership, ActionRenew, anyone},

	{ResourceMembershipTier, ActionCreate, admins},
	{ResourceMembershipTier, ActionUpdate, admins},
	{ResourceMembershipTier, ActionDelete, admins},

	{ResourceEvent, ActionJoin, anyone},
	{ResourceEvent, ActionLeave, anyone},
	{ResourceEvent, ActionCreate, admins},
	{ResourceEvent, ActionUpdate, admins},
	{ResourceEvent, ActionDelete, admins},

	{ResourceEventPayment, ActionList, admins},
	{ResourceEventPayment, ActionApprove, admins},
	{ResourceEventPayment, ActionReject, admins},

	{ResourceUser, ActionList, admins},
	{ResourceUser, ActionVerify, admins},
	{ResourceUser, ActionReject, admins},
	{ResourceUser, ActionUpdateMembership, admins},
	{ResourceUser, ActionDelete, admins},

	{ResourceNotification, ActionList, anyone},
	{ResourceNotification, ActionCreate, anyone},
	{ResourceNotification, ActionMarkRead, anyone},
	{ResourceNotification, ActionSubscribe, anyone},

	{ResourceGallery, ActionCreate, admins},
	{ResourceGallery, ActionUpdate, admins},
	{ResourceGallery, ActionDelete, admins},
	{ResourceAlbum, ActionCreate, admins},
	{ResourceAlbum, ActionUpdate, admins},
	{ResourceAlbum, ActionDelete, admins},
	{ResourceCommittee, ActionCreate, admins},
	{ResourceCommittee, ActionUpdate, admins},
	{ResourceCommittee, ActionDelete, admins},

	{ResourcePaymentInfo, ActionRead, anyone},
	{ResourcePaymentInfo, ActionUpdate, admins},

	{ResourceUpload, ActionCreate, anyone},
	{ResourceAlumni, ActionList, anyone},
}

// DefaultPolicy returns the policy built from DefaultRules
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultRules)
}
