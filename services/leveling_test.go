package services

import (
	"testing"

	"coin-economy-system/models"

	"github.com/stretchr/testify/assert"
)

func TestGainExperienceCarriesRemainder(t *testing.T) {
	u := &models.User{Level: 1, Experience: 95, MaxExperience: 100}

	GainExperience(u, 10)

	assert.Equal(t, 2, u.Level)
	assert.Equal(t, int64(5), u.Experience)
	assert.Equal(t, int64(150), u.MaxExperience)
}

func TestGainExperienceMultipleLevels(t *testing.T) {
	u := &models.User{Level: 1, Experience: 0, MaxExperience: 100}

	// 100 + 150 + 225 = 475 crosses three thresholds
	GainExperience(u, 500)

	assert.Equal(t, 4, u.Level)
	assert.Equal(t, int64(25), u.Experience)
	assert.Equal(t, int64(337), u.MaxExperience) // floor(225 * 1.5)
}

func TestGainExperienceBelowThreshold(t *testing.T) {
	u := &models.User{Level: 3, Experience: 10, MaxExperience: 225}

	GainExperience(u, 5)

	assert.Equal(t, 3, u.Level)
	assert.Equal(t, int64(15), u.Experience)
	assert.Equal(t, int64(225), u.MaxExperience)
}

func TestGainExperienceIgnoresNonPositive(t *testing.T) {
	u := &models.User{Level: 2, Experience: 40, MaxExperience: 150}

	GainExperience(u, 0)
	GainExperience(u, -10)

	assert.Equal(t, 2, u.Level)
	assert.Equal(t, int64(40), u.Experience)
}

func TestGainExperienceRepairsZeroThreshold(t *testing.T) {
	u := &models.User{Level: 1}

	GainExperience(u, 10)

	assert.Equal(t, int64(BaseMaxExperience), u.MaxExperience)
	assert.Equal(t, int64(10), u.Experience)
	assert.Equal(t, 1, u.Level)
}
