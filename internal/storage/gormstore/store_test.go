package gormstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/diewo77/clientpath/internal/storage/storagetest"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStoreConformanceSQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New(setupTestDB(t)) })
}

// Runs the suite against a real PostgreSQL when TEST_POSTGRES_DSN is set.
func TestStoreConformancePostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	storagetest.Run(t, func(t *testing.T) storage.Store {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		if err := db.Migrator().DropTable(models.All()...); err != nil {
			t.Fatalf("drop: %v", err)
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return New(db)
	})
}

func TestItemsStoredAsJSON(t *testing.T) {
	db := setupTestDB(t)
	s := New(db)
	inv := models.Invoice{
		InvoiceNumber: "INV-1",
		Total:         200,
		Items:         []models.LineItem{{Description: "Design", Quantity: 2, UnitPrice: 100}},
	}
	if err := s.CreateInvoice(context.Background(), 1, &inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	var raw string
	if err := db.Raw("SELECT items FROM invoices WHERE id = ?", inv.ID).Scan(&raw).Error; err != nil {
		t.Fatalf("raw: %v", err)
	}
	if !strings.Contains(raw, `"description":"Design"`) || !strings.Contains(raw, `"unitPrice":100`) {
		t.Fatalf("unexpected items column %s", raw)
	}
}

func TestPing(t *testing.T) {
	s := New(setupTestDB(t))
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
