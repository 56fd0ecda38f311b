package dashboard

import (
	"context"
	"slices"
	"strings"
	"time"
)

// OwnerView is the owner dashboard payload.
type OwnerView struct {
	Now          time.Time     `json:"now"`
	Stats        []Stat        `json:"stats"`
	Transactions []Transaction `json:"transactions"`
	Insights     []Insight     `json:"insights"`
	WeeklySales  []int         `json:"weekly_sales"`
	TopProducts  []string      `json:"top_products"`
}

// AdminView is the admin dashboard payload.
type AdminView struct {
	Now     time.Time  `json:"now"`
	Stats   []Stat     `json:"stats"`
	Tenants []Tenant   `json:"tenants"`
	Logs    []LogEntry `json:"logs"`
}

// Service serves the read-only dashboards.
type Service interface {
	Owner(ctx context.Context) OwnerView
	Admin(ctx context.Context, search string) AdminView
}

type service struct {
	now func() time.Time
}

// NewService returns the dashboard service. A nil clock uses time.Now.
func NewService(clock func() time.Time) Service {
	if clock == nil {
		clock = time.Now
	}
	return &service{now: clock}
}

func (s *service) Owner(context.Context) OwnerView {
	return OwnerView{
		Now:          s.now(),
		Stats:        slices.Clone(ownerStats),
		Transactions: slices.Clone(recentTransactions),
		Insights:     slices.Clone(insights),
		WeeklySales:  slices.Clone(weeklySales),
		TopProducts:  slices.Clone(topProducts),
	}
}

func (s *service) Admin(_ context.Context, search string) AdminView {
	return AdminView{
		Now:     s.now(),
		Stats:   slices.Clone(adminStats),
		Tenants: FilterTenants(tenants, search),
		Logs:    slices.Clone(activityLog),
	}
}

// FilterTenants keeps tenants whose name or owner contains search, ignoring case.
func FilterTenants(list []Tenant, search string) []Tenant {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]Tenant, 0, len(list))
	for _, t := range list {
		if q == "" || strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Owner), q) {
			out = append(out, t)
		}
	}
	return out
}
