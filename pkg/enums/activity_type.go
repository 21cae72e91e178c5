package enums

import "fmt"

// ActivityType categorizes entries in the append-only activity log.
type ActivityType string

const (
	ActivityTypeLogin        ActivityType = "login"
	ActivityTypeRegistration ActivityType = "registration"
	ActivityTypePayment      ActivityType = "payment"
	ActivityTypeEvent        ActivityType = "event"
	ActivityTypeOther        ActivityType = "other"
)

var validActivityTypes = []ActivityType{
	ActivityTypeLogin,
	ActivityTypeRegistration,
	ActivityTypePayment,
	ActivityTypeEvent,
	ActivityTypeOther,
}

// IsValid reports whether the value matches the canonical activity type enum.
func (a ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityType converts the raw string to ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}
