package enums

import "fmt"

// MemberType is the loyalty tier of a registered customer.
type MemberType string

const (
	MemberTypeRegular  MemberType = "REGULAR"
	MemberTypeSilver   MemberType = "SILVER"
	MemberTypeGold     MemberType = "GOLD"
	MemberTypePlatinum MemberType = "PLATINUM"
)

var validMemberTypes = []MemberType{
	MemberTypeRegular,
	MemberTypeSilver,
	MemberTypeGold,
	MemberTypePlatinum,
}

// String implements fmt.Stringer.
func (m MemberType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberType.
func (m MemberType) IsValid() bool {
	for _, candidate := range validMemberTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberType converts raw input into a MemberType.
func ParseMemberType(value string) (MemberType, error) {
	for _, candidate := range validMemberTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member type %q", value)
}
