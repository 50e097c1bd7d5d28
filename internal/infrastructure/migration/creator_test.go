package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecommerce/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoMigrations is the migrations directory of this repository
const repoMigrations = "../../../migrations"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"Add Users 123", "add_users_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "special_chars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	root := t.TempDir()

	first, err := Create(root, "payment-service", "create payments", "payments of orders")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(root, "payment-service", "000001_create_payments.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(root, "payment-service", "000001_create_payments.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- payment-service: create_payments")
	assert.Contains(t, string(up), "-- payments of orders")

	second, err := Create(root, "payment-service", "Add Status Index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, "000002_add_status_index.up.sql", filepath.Base(second.UpPath))

	// another service numbers independently
	other, err := Create(root, "order-service", "create orders", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), other.Version)
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "user-service", "!!!", "")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	dir := ServiceDir(root, "shipping-service")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{
		"000010_add_index.up.sql",
		"000010_add_index.down.sql",
		"000002_create_order_items.up.sql",
		"000002_create_order_items.down.sql",
		"README.md",
		"notes.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := List(root, "shipping-service")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, uint(2), files[0].Version)
	assert.Equal(t, "create_order_items", files[0].Name)
	assert.Equal(t, uint(10), files[1].Version)
	assert.Equal(t, filepath.Join(dir, "000010_add_index.down.sql"), files[1].DownPath)
}

func TestList_MissingDirectory(t *testing.T) {
	files, err := List(t.TempDir(), "favourite-service")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRepositoryMigrations(t *testing.T) {
	for _, service := range config.ServiceNames() {
		t.Run(service, func(t *testing.T) {
			files, err := List(repoMigrations, service)
			require.NoError(t, err)
			require.NotEmpty(t, files, "every service ships a schema")

			for i, f := range files {
				assert.Equal(t, uint(i+1), f.Version, "versions are contiguous")
				assert.FileExists(t, f.DownPath)
			}
		})
	}
}

func TestVersionTable(t *testing.T) {
	assert.Equal(t, "schema_migrations_favourite_service", VersionTable("favourite-service"))
	assert.Equal(t, filepath.Join("migrations", "user-service"), ServiceDir("migrations", "user-service"))
}
