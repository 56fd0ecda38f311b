package pos

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/kasir-pos/internal/catalog"
	"github.com/angelmondragon/kasir-pos/internal/discounts"
	"github.com/angelmondragon/kasir-pos/internal/loyalty"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

// CatalogView is the product grid plus the category tabs.
type CatalogView struct {
	Products   []catalog.Product `json:"products"`
	Categories []string          `json:"categories"`
}

// Service drives the cashier screen for a session.
type Service interface {
	Catalog(ctx context.Context, search, category string) (CatalogView, error)
	Discounts(ctx context.Context) ([]discounts.Discount, error)
	SearchMembers(ctx context.Context, query string, limit int) ([]loyalty.Member, error)

	Terminal(ctx context.Context, sessionID string) (Snapshot, error)
	AddItem(ctx context.Context, sessionID, productID string) (Snapshot, error)
	AdjustQuantity(ctx context.Context, sessionID, productID string, delta int) (Snapshot, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (Snapshot, error)
	ApplyDiscount(ctx context.Context, sessionID, code string) (Snapshot, error)
	ClearDiscount(ctx context.Context, sessionID string) (Snapshot, error)
	AttachMember(ctx context.Context, sessionID, memberID string) (Snapshot, error)
	DetachMember(ctx context.Context, sessionID string) (Snapshot, error)
	RedeemPoints(ctx context.Context, sessionID string, points int64) (Snapshot, error)
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (Snapshot, bool, error)
	EndSession(ctx context.Context, sessionID string) error
}

type service struct {
	catalog   catalog.Provider
	discounts discounts.Source
	members   loyalty.Directory
	terminals *Registry
	logg      *logger.Logger
}

// NewService wires the cashier screen to its catalog, promo codes, members and terminals.
func NewService(products catalog.Provider, promos discounts.Source, members loyalty.Directory, terminals *Registry, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if promos == nil {
		return nil, fmt.Errorf("discount source required")
	}
	if members == nil {
		return nil, fmt.Errorf("member directory required")
	}
	if terminals == nil {
		return nil, fmt.Errorf("terminal registry required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		catalog:   products,
		discounts: promos,
		members:   members,
		terminals: terminals,
		logg:      logg,
	}, nil
}

func (s *service) Catalog(ctx context.Context, search, category string) (CatalogView, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return CatalogView{}, err
	}
	if category == "" {
		category = catalog.CategoryAll
	}
	return CatalogView{
		Products:   catalog.Filter(products, search, category),
		Categories: s.catalog.Categories(),
	}, nil
}

func (s *service) Discounts(ctx context.Context) ([]discounts.Discount, error) {
	return s.discounts.List(ctx, true)
}

func (s *service) SearchMembers(ctx context.Context, query string, limit int) ([]loyalty.Member, error) {
	return s.members.Search(ctx, strings.TrimSpace(query), limit)
}

func (s *service) Terminal(_ context.Context, sessionID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.Snapshot(), nil
}

func (s *service) AddItem(ctx context.Context, sessionID, productID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.AddItem(product)
}

func (s *service) AdjustQuantity(_ context.Context, sessionID, productID string, delta int) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.AdjustQuantity(productID, delta)
}

func (s *service) RemoveItem(_ context.Context, sessionID, productID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.RemoveItem(productID)
}

func (s *service) ApplyDiscount(ctx context.Context, sessionID, code string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	d, err := s.discounts.Lookup(ctx, discounts.NormalizeCode(code))
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := t.ApplyDiscount(d)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "discount_code", d.Code), "pos.discount_rejected")
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *service) ClearDiscount(_ context.Context, sessionID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.ClearDiscount()
}

func (s *service) AttachMember(ctx context.Context, sessionID, memberID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	m, err := s.members.Member(ctx, memberID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.AttachMember(m)
}

func (s *service) DetachMember(_ context.Context, sessionID string) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.DetachMember()
}

func (s *service) RedeemPoints(_ context.Context, sessionID string, points int64) (Snapshot, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return t.RedeemPoints(points)
}

func (s *service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (Snapshot, bool, error) {
	t, err := s.terminals.Get(sessionID)
	if err != nil {
		return Snapshot{}, false, err
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)
	return t.Checkout(ctx, req)
}

// EndSession closes the session's terminal, cancelling any payment in flight.
func (s *service) EndSession(ctx context.Context, sessionID string) error {
	return s.terminals.Close(ctx, sessionID)
}
