package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/alumnihub/internal/app/models"
)

func TestDefaultPolicy_AdminOnlyActions(t *testing.T) {
	policy := DefaultPolicy()

	adminOnly := []struct {
		resource Resource
		action   Action
	}{
		{ResourceUser, ActionVerify},
		{ResourceUser, ActionReject},
		{ResourceUser, ActionUpdateMembership},
		{ResourceUser, ActionList},
		{ResourceUser, ActionDelete},
		{ResourceEventPayment, ActionApprove},
		{ResourceEventPayment, ActionReject},
		{ResourceEventPayment, ActionList},
		{ResourceEvent, ActionCreate},
		{ResourceMembershipTier, ActionDelete},
		{ResourceGallery, ActionCreate},
		{ResourceCommittee, ActionUpdate},
		{ResourcePaymentInfo, ActionUpdate},
	}

	for _, tc := range adminOnly {
		t.Run(string(tc.resource)+"/"+string(tc.action), func(t *testing.T) {
			assert.True(t, policy.Allows(tc.resource, tc.action, models.RoleAdmin))
			assert.False(t, policy.Allows(tc.resource, tc.action, models.RoleAlumni))
		})
	}
}

func TestDefaultPolicy_MemberActions(t *testing.T) {
	policy := DefaultPolicy()

	for _, role := range []models.Role{models.RoleAlumni, models.RoleAdmin} {
		assert.True(t, policy.Allows(ResourceProfile, ActionUpdate, role))
		assert.True(t, policy.Allows(ResourceMembership, ActionApply, role))
		assert.True(t, policy.Allows(ResourceEvent, ActionJoin, role))
		assert.True(t, policy.Allows(ResourceNotification, ActionMarkRead, role))
		assert.True(t, policy.Allows(ResourceUpload, ActionCreate, role))
	}
}

func TestPolicy_DeniesUnknown(t *testing.T) {
	policy := NewPolicy([]Rule{{ResourceEvent, ActionJoin, []models.Role{models.RoleAlumni}}})

	assert.True(t, policy.Allows(ResourceEvent, ActionJoin, models.RoleAlumni))
	assert.False(t, policy.Allows(ResourceEvent, ActionJoin, models.RoleAdmin))
	assert.False(t, policy.Allows(ResourceEvent, ActionDelete, models.RoleAlumni))
	assert.False(t, policy.Allows(ResourceEvent, ActionJoin, models.Role("")))

	var nilPolicy *Policy
	assert.False(t, nilPolicy.Allows(ResourceEvent, ActionJoin, models.RoleAdmin))
}
