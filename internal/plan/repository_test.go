package plan

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/civil"
)

var planRowColumns = []string{
	"id", "name", "price", "activities", "availability", "duration_value", "duration_unit",
	"sessions_per_week", "coach_access", "active", "description", "created_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	p := &Plan{
		Name:            "Monthly",
		Price:           decimal.RequireFromString("300"),
		Activities:      []string{"Cardio"},
		DurationValue:   1,
		DurationUnit:    UnitMonth,
		SessionsPerWeek: UnlimitedSessions,
		Active:          true,
		CreatedAt:       civil.Timestamp{},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plans`)).
		WithArgs("Monthly", sqlmock.AnyArg(), sqlmock.AnyArg(), "", 1, "month", -1, false, true, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(0), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM plans`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(planRowColumns).
			AddRow(3, "Yearly", "2500.00", `["Cardio","Yoga"]`, "", 1, "year", 3, 1, 1, "", "2024-01-01 09:00:00"))

	p, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Yearly", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("2500")))
	assert.Equal(t, []string{"Cardio", "Yoga"}, []string(p.Activities))
	assert.Equal(t, UnitYear, p.DurationUnit)
	assert.True(t, p.CoachAccess)
	assert.Equal(t, "2024-01-01 09:00:00", p.CreatedAt.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM plans`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(planRowColumns))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	t.Run("only active", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM plans\s+WHERE active = 1\s+ORDER BY name ASC`).
			WillReturnRows(sqlmock.NewRows(planRowColumns).
				AddRow(1, "Monthly", "300", `[]`, "", 1, "month", -1, 0, 1, "", "2024-01-01 09:00:00"))

		plans, err := repo.List(context.Background(), true)
		require.NoError(t, err)
		assert.Len(t, plans, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM plans\s+ORDER BY name ASC`).
			WillReturnRows(sqlmock.NewRows(planRowColumns))

		plans, err := repo.List(context.Background(), false)
		require.NoError(t, err)
		assert.NotNil(t, plans)
		assert.Empty(t, plans)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM plans WHERE id = ?`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM plans WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Activities(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO activities`)).
		WithArgs("Boxing", "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(2, "Boxing", "").
			AddRow(1, "Cardio", "Treadmills and bikes"))

	a, err := repo.CreateActivity(context.Background(), "Boxing", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.ID)

	activities, err := repo.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Len(t, activities, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
