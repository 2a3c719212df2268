package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pq", &pq.Error{Code: "23505"}, true},
		{"pq fk", &pq.Error{Code: "23503"}, false},
		{"pgx", &pgconn.PgError{Code: "23505"}, true},
		{"mysql", &mysql.MySQLError{Number: 1062}, true},
		{"mysql other", &mysql.MySQLError{Number: 1213}, false},
		{"sqlite text", errors.New("UNIQUE constraint failed: enrollments.user_id"), true},
		{"not found", gorm.ErrRecordNotFound, false},
	}
	for _, tc := range cases {
		if got := IsDuplicateKey(tc.err); got != tc.want {
			t.Errorf("%s: IsDuplicateKey = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("wrapped ErrRecordNotFound must be detected")
	}
	if IsNotFound(gorm.ErrDuplicatedKey) {
		t.Fatal("duplicate is not not-found")
	}
}
