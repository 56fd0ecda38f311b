package enums

import (
	"fmt"
	"strings"
)

// PaymentType enumerates the tender accepted at the register.
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "CASH"
	PaymentTypeQRIS    PaymentType = "QRIS"
	PaymentTypeCard    PaymentType = "CARD"
	PaymentTypeEWallet PaymentType = "EWALLET"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeCash,
	PaymentTypeQRIS,
	PaymentTypeCard,
	PaymentTypeEWallet,
}

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validPaymentTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
