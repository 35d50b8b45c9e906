package services

import (
	"testing"
	"time"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTournament(t *testing.T, db *gorm.DB, status string, start, end time.Time) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		ID:            uuid.NewString(),
		Name:          "ALPHA BATTLE",
		DayOfWeek:     "Friday",
		StartTime:     "20:00",
		DurationHours: 2,
		EntryFee:      100,
		PrizePool:     10000,
		Active:        true,
		Status:        status,
		StartDate:     &start,
		EndDate:       &end,
	}
	require.NoError(t, db.Create(tournament).Error)
	return tournament
}

func futureTournament(t *testing.T, db *gorm.DB) *models.Tournament {
	start := time.Now().Add(time.Hour)
	return seedTournament(t, db, models.TournamentScheduled, start, start.Add(2*time.Hour))
}

func runningTournament(t *testing.T, db *gorm.DB) *models.Tournament {
	start := time.Now().Add(-time.Hour)
	return seedTournament(t, db, models.TournamentActive, start, start.Add(2*time.Hour))
}

func TestRegisterDebitsEntryFeeOnce(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := futureTournament(t, db)

	_, balance, err := tournaments.Register(user.ID, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), balance)

	_, _, err = tournaments.Register(user.ID, tournament.ID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, int64(400), reloadUser(t, db, user.ID).Coins)
	requireLedgerConsistent(t, db, user.ID)
}

func TestRegisterInsufficientFee(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 50)
	tournament := futureTournament(t, db)

	_, _, err := tournaments.Register(user.ID, tournament.ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(50), reloadUser(t, db, user.ID).Coins)

	var count int64
	require.NoError(t, db.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ?", tournament.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterClosedAfterStart(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := runningTournament(t, db)

	_, _, err := tournaments.Register(user.ID, tournament.ID)
	require.ErrorIs(t, err, ErrTournamentClosed)
}

func TestSubmitScoreRequiresRegistration(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := runningTournament(t, db)

	_, err := tournaments.SubmitScore(user.ID, tournament.ID, 42)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestSubmitScorePolicies(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := runningTournament(t, db)
	require.NoError(t, db.Create(&models.TournamentParticipant{
		ID:           uuid.NewString(),
		TournamentID: tournament.ID,
		UserID:       user.ID,
		JoinedAt:     time.Now(),
	}).Error)

	// Default: last write wins, even when lower
	best, err := tournaments.SubmitScore(user.ID, tournament.ID, 80)
	require.NoError(t, err)
	assert.Equal(t, int64(80), best)

	best, err = tournaments.SubmitScore(user.ID, tournament.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), best)

	// Best-score policy keeps the higher value
	tournaments.AllowScoreDecrease = false
	best, err = tournaments.SubmitScore(user.ID, tournament.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(30), best)

	best, err = tournaments.SubmitScore(user.ID, tournament.ID, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(90), best)
}

func TestSubmitScoreClosedBeforeStart(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := futureTournament(t, db)

	_, _, err := tournaments.Register(user.ID, tournament.ID)
	require.NoError(t, err)

	_, err = tournaments.SubmitScore(user.ID, tournament.ID, 42)
	require.ErrorIs(t, err, ErrTournamentClosed)
}

func TestFinalizePaysPrizesAndSchedulesNext(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	tournament := runningTournament(t, db)

	users := make([]*models.User, 4)
	for i := range users {
		users[i] = seedUser(t, db, 0)
		require.NoError(t, db.Create(&models.TournamentParticipant{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			UserID:       users[i].ID,
			Score:        int64(10 * (i + 1)), // users[3] wins
			JoinedAt:     time.Now().Add(time.Duration(i) * time.Second),
		}).Error)
	}

	// Push the end into the past and sweep
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Tournament{}).Where("id = ?", tournament.ID).
		Update("end_date", past).Error)
	require.NoError(t, tournaments.Sweep(time.Now()))

	var completed models.Tournament
	require.NoError(t, db.First(&completed, "id = ?", tournament.ID).Error)
	assert.Equal(t, models.TournamentCompleted, completed.Status)

	// 50/30/20 of the 10k pool, top three only
	assert.Equal(t, int64(5000), reloadUser(t, db, users[3].ID).Coins)
	assert.Equal(t, int64(3000), reloadUser(t, db, users[2].ID).Coins)
	assert.Equal(t, int64(2000), reloadUser(t, db, users[1].ID).Coins)
	assert.Zero(t, reloadUser(t, db, users[0].ID).Coins)
	for _, u := range users {
		requireLedgerConsistent(t, db, u.ID)
	}

	var winners []models.TournamentWinner
	require.NoError(t, db.Where("tournament_id = ?", tournament.ID).
		Order("position ASC").Find(&winners).Error)
	require.Len(t, winners, 3)
	assert.Equal(t, users[3].ID, winners[0].UserID)
	assert.Equal(t, int64(5000), winners[0].Reward)

	// The weekly template spawned the next instance
	var next models.Tournament
	require.NoError(t, db.Where("id <> ? AND status = ?", tournament.ID, models.TournamentScheduled).
		First(&next).Error)
	require.NotNil(t, next.StartDate)
	assert.Equal(t, time.Friday, next.StartDate.Weekday())
	assert.True(t, next.StartDate.After(time.Now()))
}

func TestResultsTieKeepsRegistrationOrder(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	tournament := runningTournament(t, db)

	early := seedUser(t, db, 0)
	late := seedUser(t, db, 0)
	base := time.Now()
	require.NoError(t, db.Create(&models.TournamentParticipant{
		ID: uuid.NewString(), TournamentID: tournament.ID, UserID: late.ID, Score: 50, JoinedAt: base.Add(time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.TournamentParticipant{
		ID: uuid.NewString(), TournamentID: tournament.ID, UserID: early.ID, Score: 50, JoinedAt: base,
	}).Error)

	_, ranked, err := tournaments.Results(tournament.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, early.ID, ranked[0].UserID, "ties resolve to the earlier registration")
}

func TestCurrentReportsRegistration(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)
	tournament := futureTournament(t, db)

	got, registered, err := tournaments.Current(user.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.ID, got.ID)
	assert.False(t, registered)

	_, _, err = tournaments.Register(user.ID, tournament.ID)
	require.NoError(t, err)

	_, registered, err = tournaments.Current(user.ID)
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestCurrentNoTournament(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	user := seedUser(t, db, 0)

	_, _, err := tournaments.Current(user.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNextOccurrence(t *testing.T) {
	// Wednesday 2026-01-07 12:00 UTC
	after := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

	got, err := NextOccurrence("Friday", "20:00", after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 9, 20, 0, 0, 0, time.UTC), got)

	// Same weekday, time already past: next week
	got, err = NextOccurrence("Wednesday", "08:00", after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC), got)

	_, err = NextOccurrence("Someday", "20:00", after)
	require.Error(t, err)
	_, err = NextOccurrence("Friday", "25:99", after)
	require.Error(t, err)
}

func TestScheduleUpcomingFillsDates(t *testing.T) {
	db := newTestDB(t)
	tournaments := NewTournamentService(db, NewEconomyService(db))
	template := &models.Tournament{
		ID:            uuid.NewString(),
		Name:          "ALPHA BATTLE",
		DayOfWeek:     "Friday",
		StartTime:     "20:00",
		DurationHours: 2,
		EntryFee:      100,
		PrizePool:     10000,
		Active:        true,
		Status:        models.TournamentScheduled,
	}
	require.NoError(t, db.Create(template).Error)

	require.NoError(t, tournaments.ScheduleUpcoming(time.Now()))

	var fresh models.Tournament
	require.NoError(t, db.First(&fresh, "id = ?", template.ID).Error)
	require.NotNil(t, fresh.StartDate)
	require.NotNil(t, fresh.EndDate)
	assert.Equal(t, time.Friday, fresh.StartDate.Weekday())
	assert.Equal(t, 2*time.Hour, fresh.EndDate.Sub(*fresh.StartDate))
}
