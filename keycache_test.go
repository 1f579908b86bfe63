package bulkbench_test

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/rushairer/bulkbench"
)

func newWarmedCache(t *testing.T, userIDs, productIDs []int64) *bulkbench.KeyCache {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRows := sqlmock.NewRows([]string{"id"})
	for _, id := range userIDs {
		userRows.AddRow(id)
	}
	productRows := sqlmock.NewRows([]string{"id"})
	for _, id := range productIDs {
		productRows.AddRow(id)
	}
	mock.ExpectQuery("SELECT id FROM users").WillReturnRows(userRows)
	mock.ExpectQuery("SELECT id FROM products").WillReturnRows(productRows)

	cache := bulkbench.NewKeyCache(db)
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("warm failed: %v", err)
	}
	return cache
}

func TestKeyCacheNotReadyBeforeWarm(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	cache := bulkbench.NewKeyCache(db)
	if cache.Ready() {
		t.Fatal("cache reports ready before warm")
	}
	if _, err := cache.RandomUserID(); !errors.Is(err, bulkbench.ErrKeyCacheNotReady) {
		t.Fatalf("expected ErrKeyCacheNotReady, got %v", err)
	}
	if _, err := cache.RandomProductID(); !errors.Is(err, bulkbench.ErrKeyCacheNotReady) {
		t.Fatalf("expected ErrKeyCacheNotReady, got %v", err)
	}
}

func TestKeyCacheWarmAndSample(t *testing.T) {
	cache := newWarmedCache(t, []int64{1, 2, 3}, []int64{10, 20})

	if !cache.Ready() {
		t.Fatal("cache not ready after warm")
	}
	if cache.UserCount() != 3 || cache.ProductCount() != 2 {
		t.Fatalf("unexpected cache sizes: %d users, %d products", cache.UserCount(), cache.ProductCount())
	}

	for i := 0; i < 100; i++ {
		id, err := cache.RandomUserID()
		if err != nil {
			t.Fatalf("random user id failed: %v", err)
		}
		if id < 1 || id > 3 {
			t.Fatalf("sampled unknown user id %d", id)
		}

		pid, err := cache.RandomProductID()
		if err != nil {
			t.Fatalf("random product id failed: %v", err)
		}
		if pid != 10 && pid != 20 {
			t.Fatalf("sampled unknown product id %d", pid)
		}
	}
}

func TestKeyCacheWarmFailsOnEmptyUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cache := bulkbench.NewKeyCache(db)
	if err := cache.Warm(context.Background()); !errors.Is(err, bulkbench.ErrNoUsersCached) {
		t.Fatalf("expected ErrNoUsersCached, got %v", err)
	}
	if cache.Ready() {
		t.Fatal("cache must not be ready after failed warm")
	}
}

func TestKeyCacheWarmFailsOnEmptyProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT id FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cache := bulkbench.NewKeyCache(db)
	if err := cache.Warm(context.Background()); !errors.Is(err, bulkbench.ErrNoProductsCached) {
		t.Fatalf("expected ErrNoProductsCached, got %v", err)
	}
}

// 粗粒度均匀性检查：10 个主键取样 10000 次，每个出现次数应落在期望值附近
func TestKeyCacheSamplingIsRoughlyUniform(t *testing.T) {
	userIDs := make([]int64, 10)
	for i := range userIDs {
		userIDs[i] = int64(i + 1)
	}
	cache := newWarmedCache(t, userIDs, []int64{1})

	const samples = 10000
	counts := make(map[int64]int)
	for i := 0; i < samples; i++ {
		id, err := cache.RandomUserID()
		if err != nil {
			t.Fatalf("random user id failed: %v", err)
		}
		counts[id]++
	}

	expected := samples / len(userIDs)
	for _, id := range userIDs {
		n := counts[id]
		if n < expected/2 || n > expected*2 {
			t.Fatalf("id %d sampled %d times, expected around %d", id, n, expected)
		}
	}
}
