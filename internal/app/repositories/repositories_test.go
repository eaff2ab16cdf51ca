package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
)

func TestApplyUserFilter(t *testing.T) {
	b := newBase(nil)

	sql, args, err := applyUserFilter(b.sb.Select("id").From("users"), UserFilter{
		Role:   models.RoleAlumni,
		Status: models.UserStatusVerified,
		Search: " rahim ",
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM users WHERE role = $1 AND status = $2 AND (name ILIKE $3 OR email ILIKE $4)",
		sql)
	assert.Equal(t, []interface{}{models.RoleAlumni, models.UserStatusVerified, "%rahim%", "%rahim%"}, args)
}

func TestApplyUserFilter_Empty(t *testing.T) {
	b := newBase(nil)

	sql, args, err := applyUserFilter(b.sb.Select("id").From("users"), UserFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users", sql)
	assert.Empty(t, args)
}

func TestMembershipCurrentQueryOrdersByRecency(t *testing.T) {
	r := NewMembershipRepository(nil)

	sql, _, err := r.selectWithTier().
		Where("m.user_id = ?", 5).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(1).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM memberships m JOIN membership_tiers t ON t.id = m.tier_id")
	assert.Contains(t, sql, "ORDER BY m.created_at DESC, m.id DESC LIMIT 1")
	assert.Contains(t, sql, "m.user_id = $1")
}
