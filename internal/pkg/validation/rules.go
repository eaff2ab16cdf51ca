package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/alumnihub/internal/app/models"
)

// Validation rule patterns
var (
	// Phone numbers: optional leading +, then digits with spaces or dashes
	PhonePattern = `^\+?[0-9][0-9 \-]{6,18}[0-9]$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// Custom tag names
const (
	TagMembershipType   = "membership_type"
	TagBillingPeriod    = "billing_period"
	TagPaymentMethod    = "payment_method"
	TagNotificationType = "notification_type"
	TagAdminAction      = "admin_action"
	TagPhone            = "phone"
)

var enumValues = map[string][]string{
	TagMembershipType: {
		string(models.MembershipTypeGeneral),
		string(models.MembershipTypeDonor),
		string(models.MembershipTypeLifetimeDonor),
	},
	TagBillingPeriod: {
		string(models.BillingPeriodWeekly),
		string(models.BillingPeriodMonthly),
		string(models.BillingPeriodYearly),
		string(models.BillingPeriodOneTime),
	},
	TagPaymentMethod: {
		string(models.PaymentMethodBank),
		string(models.PaymentMethodBkash),
		string(models.PaymentMethodNagad),
		string(models.PaymentMethodRocket),
	},
	TagNotificationType: {
		string(models.NotificationTypeSystem),
		string(models.NotificationTypeMembership),
		string(models.NotificationTypeEvent),
	},
	TagAdminAction: {
		string(models.AdminActionActivate),
		string(models.AdminActionCancel),
		string(models.AdminActionPending),
	},
}

// AllowedValues returns the accepted values of an enum tag, or nil for
// tags that are not enums
func AllowedValues(tag string) []string {
	return enumValues[tag]
}

// RegisterRules installs the custom tags on v and makes field errors report
// JSON field names
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonTagName)

	for tag, values := range enumValues {
		if err := v.RegisterValidation(tag, oneOf(values)); err != nil {
			return err
		}
	}

	return v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return CompiledPatterns.Phone.MatchString(value)
	})
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, allowed := range values {
			if value == allowed {
				return true
			}
		}
		return false
	}
}

func jsonTagName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
