package database

import (
	"regexp"
	"testing"
	"time"

	"data-reconciler/core/dataset"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestReadTableMySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `accounts`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "balance", "created"}).
			AddRow([]byte("1"), []byte("alice"), []byte("10.5"), created).
			AddRow([]byte("2"), nil, []byte("NULL"), created))

	ds, err := ReadTable(t.Context(), db, "accounts")
	require.NoError(t, err)

	assert.Equal(t, "accounts", ds.Name)
	assert.Equal(t, []string{"id", "name", "balance", "created"}, ds.ColumnNames())
	assert.Equal(t, dataset.KindInt, ds.Column("id").Kind)
	assert.Equal(t, []any{"alice", nil}, ds.Column("name").Values)
	assert.Equal(t, []any{10.5, nil}, ds.Column("balance").Values)
	assert.Equal(t, dataset.KindTime, ds.Column("created").Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTableQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(".*").WillReturnError(assert.AnError)

	_, err := ReadTable(t.Context(), db, "accounts")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReadTableSQLite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE people (id INTEGER, name TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO people VALUES (2, 'bob'), (1, NULL)").Error)

	ds, err := ReadTable(t.Context(), db, "people")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, []any{int64(2), int64(1)}, ds.Column("id").Values)
	assert.Equal(t, []any{"bob", nil}, ds.Column("name").Values)

	_, err = ReadTable(t.Context(), db, "people where 1=1")
	assert.Error(t, err)
}
