package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func basicLog(n int) models.DiveLog {
	return models.DiveLog{
		DiveNumber: n,
		Date:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n),
		Site:       "House Reef",
		Duration:   45,
		MaxDepth:   18,
		WaterTemp:  26,
		DiveType:   "fun",
	}
}

func TestEvaluateBadges_EmptyLogs(t *testing.T) {
	assert.Empty(t, EvaluateBadges(nil))
	assert.Empty(t, EvaluateBadges([]models.DiveLog{}))
}

func TestEvaluateBadges_FirstSplash(t *testing.T) {
	unlocked := EvaluateBadges([]models.DiveLog{basicLog(1)})
	assert.Equal(t, []string{"first-splash"}, unlocked)
}

func TestEvaluateBadges_CountMilestones(t *testing.T) {
	var logs []models.DiveLog
	for i := 1; i <= 4; i++ {
		logs = append(logs, basicLog(i))
	}

	unlocked := EvaluateBadges(logs)
	assert.Contains(t, unlocked, "first-splash")
	assert.Contains(t, unlocked, "weekend-warrior")
	assert.NotContains(t, unlocked, "half-century")
	assert.NotContains(t, unlocked, "century-club")
}

func TestEvaluateBadges_DepthThresholds(t *testing.T) {
	shallow := basicLog(1)
	shallow.MaxDepth = 29.9
	assert.NotContains(t, EvaluateBadges([]models.DiveLog{shallow}), "deep-diver")

	at30 := basicLog(1)
	at30.MaxDepth = 30
	unlocked := EvaluateBadges([]models.DiveLog{at30})
	assert.Contains(t, unlocked, "deep-diver")
	assert.NotContains(t, unlocked, "abyss-seeker")

	at40 := basicLog(1)
	at40.MaxDepth = 40
	unlocked = EvaluateBadges([]models.DiveLog{at40})
	assert.Contains(t, unlocked, "deep-diver")
	assert.Contains(t, unlocked, "abyss-seeker")
}

func TestEvaluateBadges_SkillBadges(t *testing.T) {
	long := basicLog(1)
	long.Duration = 60
	assert.Contains(t, EvaluateBadges([]models.DiveLog{long}), "endurance")

	cold := basicLog(2)
	cold.WaterTemp = 8
	assert.Contains(t, EvaluateBadges([]models.DiveLog{cold}), "ice-breaker")

	// A zero-duration entry is a placeholder, not a cold-water dive.
	empty := basicLog(3)
	empty.WaterTemp = 0
	empty.Duration = 0
	assert.NotContains(t, EvaluateBadges([]models.DiveLog{empty}), "ice-breaker")

	night := basicLog(4)
	night.DiveType = models.DiveTypeNight
	assert.Contains(t, EvaluateBadges([]models.DiveLog{night}), "night-owl")
}

func TestEvaluateBadges_DistinctSites(t *testing.T) {
	var logs []models.DiveLog
	for i := 0; i < 12; i++ {
		l := basicLog(i + 1)
		l.Site = "Blue Hole" // same site every time
		logs = append(logs, l)
	}
	assert.NotContains(t, EvaluateBadges(logs), "globe-trotter")

	for i := range logs {
		logs[i].Site = fmt.Sprintf("Site %d", i%10)
	}
	assert.Contains(t, EvaluateBadges(logs), "globe-trotter")
}

func TestEvaluateBadges_BuddiesAcrossLogs(t *testing.T) {
	l1 := basicLog(1)
	l1.Buddies = datatypes.JSON(`["Ana","Ben","Cho"]`)
	l2 := basicLog(2)
	l2.Buddies = datatypes.JSON(`["Ana","Dee","Eli"]`)

	unlocked := EvaluateBadges([]models.DiveLog{l1, l2})
	assert.Contains(t, unlocked, "buddy-system")
}

func TestEvaluateBadges_Naturalist(t *testing.T) {
	var logs []models.DiveLog
	for i := 0; i < 4; i++ {
		l := basicLog(i + 1)
		l.Sightings = datatypes.JSON(fmt.Sprintf(
			`[{"species":"sp-%d-a","count":1},{"species":"sp-%d-b","count":2},{"species":"sp-%d-c","count":1},{"species":"sp-%d-d","count":1},{"species":"sp-%d-e","count":3}]`,
			i, i, i, i, i))
		logs = append(logs, l)
	}
	assert.Contains(t, EvaluateBadges(logs), "naturalist")
}

func TestEvaluateBadges_Shutterbug(t *testing.T) {
	var logs []models.DiveLog
	for i := 0; i < 5; i++ {
		l := basicLog(i + 1)
		keys := `[`
		for j := 0; j < 10; j++ {
			if j > 0 {
				keys += ","
			}
			keys += fmt.Sprintf(`"users/u/logs/l/%d-%d.jpg"`, i, j)
		}
		keys += `]`
		l.PhotoKeys = datatypes.JSON(keys)
		logs = append(logs, l)
	}
	assert.Contains(t, EvaluateBadges(logs), "shutterbug")
}

func TestEvaluateBadges_Monotone(t *testing.T) {
	deep := basicLog(1)
	deep.MaxDepth = 35
	logs := []models.DiveLog{deep}

	before := EvaluateBadges(logs)
	require.Contains(t, before, "deep-diver")

	// Adding a shallow dive must never lock an unlocked badge.
	logs = append(logs, basicLog(2))
	after := EvaluateBadges(logs)
	for _, id := range before {
		assert.Contains(t, after, id)
	}
}
