package loyalty

import (
	"cmp"
	"context"
	"slices"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
)

var demoMembers = []Member{
	{ID: "c-1", Code: "M0001A2B", Name: "Budi Santoso", Phone: "081234567890", Tier: enums.MemberTypeGold, Points: 1250},
	{ID: "c-2", Code: "M0002C3D", Name: "Sari Dewi", Phone: "081298765432", Tier: enums.MemberTypeSilver, Points: 430},
	{ID: "c-3", Code: "M0003E4F", Name: "Andi Pratama", Phone: "085712345678", Tier: enums.MemberTypeRegular, Points: 80},
	{ID: "c-4", Code: "M0004G5H", Name: "Rina Wijaya", Phone: "087811223344", Tier: enums.MemberTypePlatinum, Points: 5200},
}

// StaticDirectory serves the built-in demo members.
type StaticDirectory struct {
	members []Member
}

// NewStaticDirectory returns the demo members, or the supplied ones when given.
func NewStaticDirectory(members ...Member) *StaticDirectory {
	if len(members) == 0 {
		members = demoMembers
	}
	cp := make([]Member, len(members))
	copy(cp, members)
	slices.SortFunc(cp, func(a, b Member) int { return cmp.Compare(a.Name, b.Name) })
	return &StaticDirectory{members: cp}
}

func (s *StaticDirectory) Search(_ context.Context, query string, limit int) ([]Member, error) {
	limit = normalizeLimit(limit)
	out := make([]Member, 0, limit)
	for _, m := range s.members {
		if len(out) == limit {
			break
		}
		if m.Matches(query) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *StaticDirectory) Member(_ context.Context, id string) (Member, error) {
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, notFound(id)
}
