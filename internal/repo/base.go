package repo

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"gorm.io/gorm"
)

// Base provides a shared foundation for the catalog repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Translate maps gorm errors onto the API error codes. A missing row becomes
// NOT_FOUND carrying notFoundMsg; anything else is a dependency failure.
func Translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog database query failed")
}
