package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"gorm not found", gorm.ErrRecordNotFound, ErrRecordNotFound},
		{"wrapped gorm not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), ErrRecordNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, ErrDuplicateKey},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, ErrForeignKey},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicateKey},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrForeignKey},
		{"check violation", &pgconn.PgError{Code: "23514"}, ErrCheckViolation},
		{"not null violation", &pgconn.PgError{Code: "23502"}, ErrCheckViolation},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ErrSerialization},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrSerialization},
		{"query canceled", &pgconn.PgError{Code: "57014"}, ErrTimeout},
		{"connection exception", &pgconn.PgError{Code: "08006"}, ErrConnection},
		{"value too long", &pgconn.PgError{Code: "22001"}, ErrInvalidData},
		{"numeric out of range", &pgconn.PgError{Code: "22003"}, ErrInvalidData},
		{"context deadline", context.DeadlineExceeded, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "original error must stay in the chain")
		})
	}
}

func TestTranslateErrorPassthrough(t *testing.T) {
	assert.NoError(t, TranslateError(nil))

	plain := errors.New("something else")
	assert.Same(t, plain, TranslateError(plain))

	unknownCode := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, unknownCode, TranslateError(unknownCode))
}

func TestTranslateErrorKeepsDriverMessage(t *testing.T) {
	err := TranslateError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	assert.Contains(t, err.Error(), "duplicate key violation")
	assert.Contains(t, err.Error(), "violates unique constraint")
}

func TestErrorCategories(t *testing.T) {
	p := &Postgres{}

	assert.Equal(t, CategoryNotFound, p.GetErrorCategory(gorm.ErrRecordNotFound))
	assert.Equal(t, CategoryConstraint, p.GetErrorCategory(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, CategoryConnection, p.GetErrorCategory(&pgconn.PgError{Code: "53300"}))
	assert.Equal(t, CategoryTransient, p.GetErrorCategory(&pgconn.PgError{Code: "40001"}))
	assert.Equal(t, CategoryData, p.GetErrorCategory(&pgconn.PgError{Code: "22001"}))
	assert.Equal(t, CategoryUnknown, p.GetErrorCategory(errors.New("x")))
	assert.Equal(t, CategoryUnknown, p.GetErrorCategory(nil))

	assert.True(t, p.IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, p.IsRetryable(&pgconn.PgError{Code: "08001"}))
	assert.False(t, p.IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, p.IsRetryable(gorm.ErrRecordNotFound))
}

func TestErrorCategoryString(t *testing.T) {
	assert.Equal(t, "constraint", CategoryConstraint.String())
	assert.Equal(t, "transient", CategoryTransient.String())
	assert.Equal(t, "unknown", ErrorCategory(42).String())
}
