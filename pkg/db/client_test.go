package db

import (
	"context"
	"testing"

	"github.com/lunaria/storefront-core/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresPath(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{}, nil)
	require.Error(t, err)
}

func TestNewOpensInMemorySQLite(t *testing.T) {
	client, err := New(context.Background(), config.StorageConfig{SQLitePath: "file::memory:?cache=shared"}, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NotNil(t, client.DB())
	require.NoError(t, client.Ping(context.Background()))
}
