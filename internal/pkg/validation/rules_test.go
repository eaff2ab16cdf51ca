package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Type   string `json:"type" validate:"required,membership_type"`
	Period string `json:"period" validate:"omitempty,billing_period"`
	Method string `json:"paymentMethod" validate:"omitempty,payment_method"`
	Kind   string `json:"kind" validate:"omitempty,notification_type"`
	Action string `json:"action" validate:"omitempty,admin_action"`
	Mobile string `json:"mobile" validate:"omitempty,phone"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterRules(v))
	return v
}

func TestRegisterRules_AcceptsKnownValues(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{
		Type:   "DONOR",
		Period: "ONE_TIME",
		Method: "BKASH",
		Kind:   "EVENT",
		Action: "ACTIVATE",
		Mobile: "+880 1711-000000",
	})
	assert.NoError(t, err)
}

func TestRegisterRules_RejectsUnknownValues(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{Type: "PLATINUM", Action: "DELETE", Mobile: "call me"})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := map[string]string{}
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"type":   TagMembershipType,
		"action": TagAdminAction,
		"mobile": TagPhone,
	}, fields)
}

func TestAllowedValues(t *testing.T) {
	assert.Equal(t, []string{"BANK", "BKASH", "NAGAD", "ROCKET"}, AllowedValues(TagPaymentMethod))
	assert.Nil(t, AllowedValues(TagPhone))
}
