package bulkbench_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/rushairer/bulkbench"
)

func TestOrderSummariesNaivePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT o.id, o.order_date").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).
			AddRow(1, now).
			AddRow(2, now.Add(-time.Hour)))

	// 朴素路径：每个订单一次额外查询
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(3, 59.97))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(0, 0.0))

	svc := bulkbench.NewOrderSummaryService(db)
	summaries, err := svc.OrderSummaries(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].NumberOfItems != 3 || summaries[0].TotalAmount != 59.97 {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderSummariesJoinedPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("LEFT JOIN order_items").
		WithArgs("bob@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_date", "count", "sum"}).
			AddRow(5, now, 2, 11.00))

	svc := bulkbench.NewOrderSummaryService(db)
	summaries, err := svc.OrderSummariesJoined(context.Background(), "bob@example.org")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].ID != 5 || summaries[0].NumberOfItems != 2 {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
