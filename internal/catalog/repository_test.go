package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/db"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/angelmondragon/kasir-pos/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigratedRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          "file:catalog_repo?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(ctx, sqlDB, config.DBDriverSQLite, "", "up"))
	return NewRepository(client.DB())
}

func TestRepositoryMatchesStaticCatalog(t *testing.T) {
	repository := newMigratedRepository(t)
	ctx := context.Background()

	fromDB, err := repository.Products(ctx)
	require.NoError(t, err)
	static, err := NewStaticProvider().Products(ctx)
	require.NoError(t, err)

	assert.Equal(t, static, fromDB)
	assert.Equal(t, ids(Filter(static, "kopi", CategoryAll)), ids(Filter(fromDB, "kopi", CategoryAll)))
}

func TestRepositoryProduct(t *testing.T) {
	repository := newMigratedRepository(t)

	p, err := repository.Product(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "SNK-002", p.SKU)
	require.NotNil(t, p.Cost)
	assert.Equal(t, int64(8500), *p.Cost)

	_, err = repository.Product(context.Background(), "nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
