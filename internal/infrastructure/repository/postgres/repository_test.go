package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

func TestAliasRepositoryListAliases(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewAliasRepository(db)
	rows := sqlmock.NewRows([]string{"client_code", "alias", "weight"}).
		AddRow("10482", "스시소라", 3.0).
		AddRow("10482", "스시소라 (청담)", 1.0).
		AddRow("20711", "비노쿠스 한남점", 2.0)

	mock.ExpectQuery("FROM client_aliases").
		WillReturnRows(rows)

	aliases, err := repo.ListAliases(context.Background())
	if err != nil {
		t.Fatalf("ListAliases() error = %v", err)
	}
	if len(aliases) != 3 {
		t.Fatalf("expected 3 aliases, got %d", len(aliases))
	}
	if aliases[0].ClientCode != "10482" || aliases[0].Weight != 3.0 {
		t.Fatalf("unexpected first row: %+v", aliases[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClientRepositoryGetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewClientRepository(db)
	rows := sqlmock.NewRows([]string{"client_code", "client_name"}).
		AddRow("10482", "스시 소라")

	mock.ExpectQuery("FROM clients").
		WithArgs("10482").
		WillReturnRows(rows)

	client, err := repo.GetByCode(context.Background(), "10482")
	if err != nil {
		t.Fatalf("GetByCode() error = %v", err)
	}
	if client.Name != "스시 소라" {
		t.Fatalf("unexpected client name %q", client.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClientRepositoryGetByCodeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewClientRepository(db)
	mock.ExpectQuery("FROM clients").
		WithArgs("99999").
		WillReturnRows(sqlmock.NewRows([]string{"client_code", "client_name"}))

	_, err = repo.GetByCode(context.Background(), "99999")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestProductRepositoryListByClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewProductRepository(db)
	rows := sqlmock.NewRows([]string{"sku_code", "sku_name", "weight"}).
		AddRow("W-0042", "샤또 마르고 2019", 4.0).
		AddRow("W-0107", "끌로 뒤 발 나파 까베르네", 1.0)

	mock.ExpectQuery("JOIN products").
		WithArgs("10482").
		WillReturnRows(rows)

	products, err := repo.ListByClient(context.Background(), "10482")
	if err != nil {
		t.Fatalf("ListByClient() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].SKUCode != "W-0042" {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEventRepositorySaveInterpretedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEventRepository(db)
	mock.ExpectExec("INSERT INTO intake_events").
		WithArgs("req-1", string(domain.StatusResolved), sqlmock.AnyArg(), sqlmock.AnyArg(), 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveInterpretedEvent(context.Background(), domain.OrderInterpretedEvent{
		RequestID:  "req-1",
		Status:     domain.StatusResolved,
		ClientCode: "10482",
		ClientName: "스시 소라",
		ItemCount:  3,
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveInterpretedEvent() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
