package loyalty

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/kasir-pos/internal/repo"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"gorm.io/gorm"
)

type memberRow struct {
	ID         string `gorm:"primaryKey"`
	MemberCode string
	Name       string
	Phone      string
	Tier       string
	Points     int64
}

func (memberRow) TableName() string { return "members" }

func (r memberRow) toMember() Member {
	return Member{
		ID:     r.ID,
		Code:   r.MemberCode,
		Name:   r.Name,
		Phone:  r.Phone,
		Tier:   enums.MemberType(r.Tier),
		Points: r.Points,
	}
}

// Repository reads loyalty members from the members table.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Member, error) {
	q := r.DB(ctx).Order("name ASC").Limit(normalizeLimit(limit))
	if needle := strings.ToLower(strings.TrimSpace(query)); needle != "" {
		pattern := "%" + needle + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	var rows []memberRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, repo.Translate(err, "members not found")
	}
	out := make([]Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toMember())
	}
	return out, nil
}

func (r *Repository) Member(ctx context.Context, id string) (Member, error) {
	var row memberRow
	if err := r.DB(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Member{}, notFound(id)
		}
		return Member{}, repo.Translate(err, "member not found")
	}
	return row.toMember(), nil
}
