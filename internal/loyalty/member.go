package loyalty

import (
	"context"
	"strings"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultSearchLimit caps member lookups when the caller passes no limit.
const DefaultSearchLimit = 20

// Member is a registered loyalty customer.
type Member struct {
	ID     string           `json:"id"`
	Code   string           `json:"member_code"`
	Name   string           `json:"name"`
	Phone  string           `json:"phone"`
	Tier   enums.MemberType `json:"tier"`
	Points int64            `json:"points"`
}

// Directory finds members for the cashier's member tab.
type Directory interface {
	Search(ctx context.Context, query string, limit int) ([]Member, error)
	Member(ctx context.Context, id string) (Member, error)
}

var multipliers = map[enums.MemberType]decimal.Decimal{
	enums.MemberTypeRegular:  decimal.NewFromInt(1),
	enums.MemberTypeSilver:   decimal.RequireFromString("1.2"),
	enums.MemberTypeGold:     decimal.RequireFromString("1.5"),
	enums.MemberTypePlatinum: decimal.NewFromInt(2),
}

// Multiplier returns the points multiplier for a tier. Unknown tiers earn at
// the regular rate.
func Multiplier(tier enums.MemberType) decimal.Decimal {
	if m, ok := multipliers[tier]; ok {
		return m
	}
	return multipliers[enums.MemberTypeRegular]
}

// Matches reports whether query is a case-insensitive substring of the
// member's name or phone. An empty query matches every member.
func (m Member) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(m.Phone, q)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultSearchLimit
	}
	return limit
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "member not found").WithDetails(map[string]any{"member_id": id})
}
