//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vendora/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "vendora-test-password"

var (
	hashOnce     sync.Once
	passwordHash string
)

// bcrypt is slow on purpose; hash once and reuse across fixtures.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPassword(TestPassword)
		if err != nil {
			panic("failed to hash fixture password: " + err.Error())
		}
		passwordHash = h
	})
	return passwordHash
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 ON CONFLICT (email) WHERE is_active = true DO NOTHING`,
		userID, email, testPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = true", email).Scan(&userID)
	}

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, vendorID uuid.UUID, name string, priceCents int64, stock int32) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO products (id, vendor_id, name, sku, price_cents, stock_quantity, is_active, verification_status)
		 VALUES ($1, $2, $3, $4, $5, $6, true, 'approved')`,
		productID, vendorID, name, "SKU-"+productID.String()[:8], priceCents, stock)
	require.NoError(t, err)

	return productID
}

// SetProductState flips the storefront gates on an existing product.
func SetProductState(t *testing.T, db DBLike, productID uuid.UUID, isActive bool, verificationStatus string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE products SET is_active = $2, verification_status = $3, updated_at = now() WHERE id = $1",
		productID, isActive, verificationStatus)
	require.NoError(t, err)
}

func SetProductPrice(t *testing.T, db DBLike, productID uuid.UUID, priceCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE products SET price_cents = $2, updated_at = now() WHERE id = $1",
		productID, priceCents)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	h, err := password.HashPassword(TestPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active) VALUES
		    (gen_random_uuid(), 'vendor@vendora.test', $1, 'vendor', true),
		    (gen_random_uuid(), 'admin@vendora.test', $1, 'admin', true)
		ON CONFLICT (email) WHERE is_active = true DO NOTHING;
	`, h)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
