package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrizeSplit is the share of the prize pool per final position, in percent.
var PrizeSplit = []int64{50, 30, 20}

type TournamentService struct {
	DB      *gorm.DB
	Economy *EconomyService

	// AllowScoreDecrease controls resubmission policy: true keeps the
	// original last-write-wins behavior, false silently keeps the best
	// score instead.
	AllowScoreDecrease bool
}

func NewTournamentService(db *gorm.DB, economy *EconomyService) *TournamentService {
	return &TournamentService{DB: db, Economy: economy, AllowScoreDecrease: true}
}

// syncPhase advances a tournament's lifecycle from its start/end timestamps.
// Phases only move forward; completion also settles prizes. Called lazily
// from every read/write path, so no timer is required for correctness.
func (s *TournamentService) syncPhase(tx *gorm.DB, t *models.Tournament, now time.Time) error {
	if t.Status == models.TournamentScheduled && t.StartDate != nil && !now.Before(*t.StartDate) {
		t.Status = models.TournamentActive
		if err := tx.Model(&models.Tournament{}).Where("id = ?", t.ID).
			Update("status", models.TournamentActive).Error; err != nil {
			return err
		}
		log.Printf("🏆 Tournament %s is now active", t.Name)
	}
	if t.Status == models.TournamentActive && t.EndDate != nil && !now.Before(*t.EndDate) {
		if err := s.finalize(tx, t); err != nil {
			return err
		}
	}
	return nil
}

// finalize settles a tournament: ranks participants, writes winner rows
// exactly once and pays prize shares through the economy choke point.
func (s *TournamentService) finalize(tx *gorm.DB, t *models.Tournament) error {
	participants, err := s.rankedParticipants(tx, t.ID)
	if err != nil {
		return err
	}

	for i, p := range participants {
		if i >= len(PrizeSplit) {
			break
		}
		reward := t.PrizePool * PrizeSplit[i] / 100
		if reward <= 0 {
			continue
		}
		if err := tx.Create(&models.TournamentWinner{
			ID:           uuid.NewString(),
			TournamentID: t.ID,
			UserID:       p.UserID,
			Position:     i + 1,
			Reward:       reward,
		}).Error; err != nil {
			return err
		}
		if _, err := s.Economy.ApplyDelta(tx, p.UserID, reward); err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, p.UserID, reward, models.CategoryTournament,
			fmt.Sprintf("Tournament prize: %s (position %d)", t.Name, i+1), &t.ID, models.RefTournament); err != nil {
			return err
		}
	}

	t.Status = models.TournamentCompleted
	if err := tx.Model(&models.Tournament{}).Where("id = ?", t.ID).
		Update("status", models.TournamentCompleted).Error; err != nil {
		return err
	}
	log.Printf("🏁 Tournament %s completed with %d participant(s)", t.Name, len(participants))

	if t.Active {
		return s.scheduleNext(tx, t)
	}
	return nil
}

// scheduleNext materializes the following weekly instance from the
// recurring template fields.
func (s *TournamentService) scheduleNext(tx *gorm.DB, prev *models.Tournament) error {
	after := time.Now()
	if prev.EndDate != nil && prev.EndDate.After(after) {
		after = *prev.EndDate
	}
	start, err := NextOccurrence(prev.DayOfWeek, prev.StartTime, after)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(prev.DurationHours) * time.Hour)

	next := &models.Tournament{
		ID:            uuid.NewString(),
		Name:          prev.Name,
		Description:   prev.Description,
		DayOfWeek:     prev.DayOfWeek,
		StartTime:     prev.StartTime,
		DurationHours: prev.DurationHours,
		EntryFee:      prev.EntryFee,
		PrizePool:     prev.PrizePool,
		Active:        prev.Active,
		Status:        models.TournamentScheduled,
		StartDate:     &start,
		EndDate:       &end,
	}
	if err := tx.Create(next).Error; err != nil {
		return err
	}
	log.Printf("📅 Next %s scheduled for %s", next.Name, start.Format(time.RFC3339))
	return nil
}

// NextOccurrence finds the first weekday+HH:MM combination strictly after
// the given time.
func NextOccurrence(dayOfWeek, startTime string, after time.Time) (time.Time, error) {
	days := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	weekday, ok := days[dayOfWeek]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid day of week %q", dayOfWeek)
	}
	clock, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q", startTime)
	}

	candidate := time.Date(after.Year(), after.Month(), after.Day(),
		clock.Hour(), clock.Minute(), 0, 0, after.Location())
	for candidate.Weekday() != weekday || !candidate.After(after) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// Current returns the upcoming or running tournament plus whether the user
// is registered in it.
func (s *TournamentService) Current(userID string) (*models.Tournament, bool, error) {
	var t models.Tournament
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("status IN ?", []string{models.TournamentScheduled, models.TournamentActive}).
			Order("start_date ASC").
			First(&t).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return s.syncPhase(tx, &t, time.Now())
	})
	if err != nil {
		return nil, false, err
	}

	var registered int64
	if err := s.DB.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND user_id = ?", t.ID, userID).
		Count(&registered).Error; err != nil {
		return nil, false, err
	}
	return &t, registered > 0, nil
}

// Register enters a user into a scheduled tournament, escrowing the entry
// fee. One entry per user; the fee debit and its ledger entry commit with
// the participant row.
func (s *TournamentService) Register(userID, tournamentID string) (*models.Tournament, int64, error) {
	var t models.Tournament
	var balance int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.syncPhase(tx, &t, time.Now()); err != nil {
			return err
		}
		if t.Status != models.TournamentScheduled {
			return ErrTournamentClosed
		}

		var existing int64
		if err := tx.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ? AND user_id = ?", t.ID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		var err error
		balance, err = s.Economy.ApplyDelta(tx, userID, -t.EntryFee)
		if err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, userID, -t.EntryFee, models.CategoryTournament,
			fmt.Sprintf("Tournament entry fee: %s", t.Name), &t.ID, models.RefTournament); err != nil {
			return err
		}

		return tx.Create(&models.TournamentParticipant{
			ID:           uuid.NewString(),
			TournamentID: t.ID,
			UserID:       userID,
			Score:        0,
			JoinedAt:     time.Now(),
		}).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &t, balance, nil
}

// SubmitScore records a participant's score while the tournament runs.
// Default policy is last-write-wins; with AllowScoreDecrease disabled a
// lower resubmission keeps the existing score.
func (s *TournamentService) SubmitScore(userID, tournamentID string, score int64) (int64, error) {
	recorded := score
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var t models.Tournament
		if err := tx.First(&t, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.syncPhase(tx, &t, time.Now()); err != nil {
			return err
		}
		if t.Status != models.TournamentActive {
			return ErrTournamentClosed
		}

		var p models.TournamentParticipant
		if err := tx.First(&p, "tournament_id = ? AND user_id = ?", t.ID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}
			return err
		}

		if !s.AllowScoreDecrease && score < p.Score {
			recorded = p.Score
			return nil
		}
		return tx.Model(&models.TournamentParticipant{}).Where("id = ?", p.ID).
			Update("score", score).Error
	})
	if err != nil {
		return 0, err
	}
	return recorded, nil
}

// rankedParticipants returns participants by score descending; ties keep
// registration order (stable sort over joined_at ordering).
func (s *TournamentService) rankedParticipants(tx *gorm.DB, tournamentID string) ([]models.TournamentParticipant, error) {
	var participants []models.TournamentParticipant
	if err := tx.Where("tournament_id = ?", tournamentID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Score > participants[j].Score
	})
	return participants, nil
}

// Results returns the tournament with its ranked standings and, once
// completed, the winner list.
func (s *TournamentService) Results(tournamentID string) (*models.Tournament, []models.TournamentParticipant, error) {
	var t models.Tournament
	var ranked []models.TournamentParticipant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.syncPhase(tx, &t, time.Now()); err != nil {
			return err
		}
		var err error
		ranked, err = s.rankedParticipants(tx, t.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if t.Status == models.TournamentCompleted {
		if err := s.DB.Where("tournament_id = ?", t.ID).
			Order("position ASC").
			Find(&t.Winners).Error; err != nil {
			return nil, nil, err
		}
	}
	return &t, ranked, nil
}

// ScheduleUpcoming fills in start/end dates for scheduled tournaments that
// only carry the weekly template. Run periodically by the scheduler.
func (s *TournamentService) ScheduleUpcoming(now time.Time) error {
	var pending []models.Tournament
	if err := s.DB.Where("status = ? AND start_date IS NULL", models.TournamentScheduled).
		Find(&pending).Error; err != nil {
		return err
	}
	for i := range pending {
		t := &pending[i]
		start, err := NextOccurrence(t.DayOfWeek, t.StartTime, now)
		if err != nil {
			log.Printf("⚠️  Tournament %s has an invalid schedule: %v", t.ID, err)
			continue
		}
		end := start.Add(time.Duration(t.DurationHours) * time.Hour)
		if err := s.DB.Model(&models.Tournament{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"start_date": start,
			"end_date":   end,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Sweep pushes due tournaments through the same lazy transition path the
// request handlers use, so lifecycles advance even without traffic.
func (s *TournamentService) Sweep(now time.Time) error {
	var due []models.Tournament
	err := s.DB.
		Where("(status = ? AND start_date <= ?) OR (status = ? AND end_date <= ?)",
			models.TournamentScheduled, now, models.TournamentActive, now).
		Find(&due).Error
	if err != nil {
		return err
	}
	for i := range due {
		t := due[i]
		if err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.syncPhase(tx, &t, now)
		}); err != nil {
			log.Printf("❌ Tournament sweep failed for %s: %v", t.ID, err)
		}
	}
	return nil
}
