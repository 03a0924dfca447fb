package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// mockMySQL returns a gorm handle speaking the MySQL dialect over sqlmock and
// a pointer to the last statement text it received.
func mockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *string) {
	t.Helper()
	var last string
	matcher := sqlmock.QueryMatcherFunc(func(_, actual string) error {
		last = actual
		return nil
	})
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock, &last
}

func TestStaffing_CountActiveForShareIsALockingRead(t *testing.T) {
	gdb, mock, last := mockMySQL(t)
	repo := NewStaffingRepository(gdb)

	mock.ExpectQuery("count").
		WithArgs(1, 5, 6, "active").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	n, err := repo.CountActiveForShare(context.Background(), 1, []uint64{5, 6})
	if err != nil {
		t.Fatalf("CountActiveForShare: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if !strings.HasPrefix(*last, "SELECT count(*) FROM `personnel`") || !strings.HasSuffix(*last, "FOR SHARE") {
		t.Fatalf("unexpected statement: %s", *last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStaffing_CountActiveDoesNotLock(t *testing.T) {
	gdb, mock, last := mockMySQL(t)
	repo := NewStaffingRepository(gdb)

	mock.ExpectQuery("count").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	if _, err := repo.CountActive(context.Background(), 1, []uint64{5}); err != nil {
		t.Fatalf("CountActive: %v", err)
	}
	if strings.Contains(*last, "FOR ") {
		t.Fatalf("plain count must not lock: %s", *last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
