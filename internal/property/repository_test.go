// AngelaMos | 2026
// repository_test.go

package property

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func buildingRow(id string, now time.Time) []driver.Value {
	return []driver.Value{
		id, "Sunny 3BHK", "Priya", "+919876543210", "12 MG Road", "building",
		"sale", 7500000.0, 5.0, "Not Specified", true, 1200.0,
		"sqft", "Maharashtra", "Pune", 18.52, nil, "{https://cdn.example.com/a.jpg}", "",
		nil, 2, nil, 3, 2,
		"<5 Years", "Semi-furnished", nil, 2023,
		"owner-1", now, now,
	}
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM properties WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(propertyColumns).AddRow(buildingRow("p-1", now)...))

	p, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Equal(t, KindBuilding, p.Kind())
	assert.Empty(t, p.Facing)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, p.Images)
	require.NotNil(t, p.Location.Lat)
	assert.InDelta(t, 18.52, *p.Location.Lat, 0.0001)
	assert.Nil(t, p.Location.Lng)

	b, ok := p.Building()
	require.True(t, ok)
	require.NotNil(t, b.Bedrooms)
	assert.Equal(t, 3, *b.Bedrooms)
	assert.Nil(t, b.Parking)
	require.NotNil(t, b.BuiltYear)
	assert.Equal(t, 2023, *b.BuiltYear)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM properties WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(propertyColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositorySearch(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	beds := 2

	mock.ExpectQuery(
		`SELECT .* FROM properties WHERE \(city ILIKE \$1 AND transaction_type = \$2 AND bedrooms >= \$3 AND built_year >= \$4\) ORDER BY created_at DESC`,
	).
		WithArgs("%pune%", "rent", 2, 2021).
		WillReturnRows(sqlmock.NewRows(propertyColumns).
			AddRow(buildingRow("p-2", now)...).
			AddRow(buildingRow("p-1", now)...))

	found, err := repo.Search(context.Background(), SearchParams{
		Location:        "pune",
		TransactionType: "rent",
		Bedrooms:        &beds,
		PropertyAge:     AgeUnderFive,
	}, now)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "p-2", found[0].ID)
}

func TestRepositoryFeaturedLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM properties WHERE is_premium = \$1 ORDER BY created_at DESC LIMIT 15`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(propertyColumns))

	found, err := repo.Featured(context.Background(), featuredLimit)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	p := validBuilding()
	p.ID = "p-1"
	p.CreatedBy = "owner-1"

	mock.ExpectQuery(`INSERT INTO properties .* RETURNING created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
}

func TestRepositoryUpdateNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	p := validBuilding()
	p.ID = "p-1"
	p.CreatedBy = "intruder"

	mock.ExpectQuery(`UPDATE properties SET .* WHERE created_by = \$\d+ AND id = \$\d+ RETURNING updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), p)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryEditCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	later := now.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM properties WHERE created_by = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs("owner-1", "p-1").
		WillReturnRows(sqlmock.NewRows(propertyColumns).AddRow(buildingRow("p-1", now)...))
	mock.ExpectQuery(`UPDATE properties SET .* WHERE created_by = \$\d+ AND id = \$\d+ RETURNING updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectCommit()

	p, err := repo.Edit(context.Background(), "p-1", "owner-1", func(p *Property) error {
		p.Title = "Sunny 3BHK, renovated"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunny 3BHK, renovated", p.Title)
	assert.Equal(t, "owner-1", p.CreatedBy)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestRepositoryEditRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("intruder", "p-1").
		WillReturnRows(sqlmock.NewRows(propertyColumns))
	mock.ExpectRollback()

	called := false
	_, err := repo.Edit(context.Background(), "p-1", "intruder", func(*Property) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.False(t, called)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("owner-1", "p-1").
		WillReturnRows(sqlmock.NewRows(propertyColumns).AddRow(buildingRow("p-1", time.Now())...))
	mock.ExpectRollback()

	_, err = repo.Edit(context.Background(), "p-1", "owner-1", func(*Property) error {
		return core.ValidationError("title is required")
	})
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRepositoryDeleteIsOwnerScoped(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM properties WHERE created_by = \$1 AND id = \$2`).
		WithArgs("owner-2", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM properties WHERE created_by = \$1 AND id = \$2`).
		WithArgs("owner-1", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	assert.ErrorIs(t, repo.Delete(ctx, "p-1", "owner-2"), core.ErrNotFound)
	assert.NoError(t, repo.Delete(ctx, "p-1", "owner-1"))
}

func TestRepositoryCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}
