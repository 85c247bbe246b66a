package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/Leeseryong88/logbook/internal/session"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBadgeNotFound = errors.New("badge not found")
	ErrBadgeRejected = errors.New("badge text rejected")
)

// BadgePredicate decides unlock state from the full dive-log list.
// Every catalog predicate is monotone: adding logs never locks a badge.
type BadgePredicate func(logs []models.DiveLog) bool

type CatalogBadge struct {
	ID          string
	Name        string
	Description string
	Category    string
	Predicate   BadgePredicate
}

// Catalog is the fixed set of system badges. Unlock state is computed
// per request, never stored.
var Catalog = []CatalogBadge{
	{"first-splash", "First Splash", "Log your first dive", "milestone", countAtLeast(1)},
	{"weekend-warrior", "Weekend Warrior", "Log 4 dives", "milestone", countAtLeast(4)},
	{"half-century", "Half Century", "Log 50 dives", "milestone", countAtLeast(50)},
	{"century-club", "Century Club", "Log 100 dives", "milestone", countAtLeast(100)},
	{"deep-diver", "Deep Diver", "Reach 30m on a single dive", "depth", anyLog(func(l *models.DiveLog) bool { return l.MaxDepth >= 30 })},
	{"abyss-seeker", "Abyss Seeker", "Reach 40m on a single dive", "depth", anyLog(func(l *models.DiveLog) bool { return l.MaxDepth >= 40 })},
	{"endurance", "Endurance", "Stay down 60 minutes or more", "skill", anyLog(func(l *models.DiveLog) bool { return l.Duration >= 60 })},
	{"ice-breaker", "Ice Breaker", "Dive in water of 10°C or colder", "skill", anyLog(func(l *models.DiveLog) bool { return l.WaterTemp <= 10 && l.Duration > 0 })},
	{"night-owl", "Night Owl", "Complete a night dive", "skill", anyLog(func(l *models.DiveLog) bool { return l.DiveType == models.DiveTypeNight })},
	{"globe-trotter", "Globe Trotter", "Dive 10 distinct sites", "exploration", distinctAtLeast(10, func(l *models.DiveLog) []string {
		if l.Site == "" {
			return nil
		}
		return []string{l.Site}
	})},
	{"naturalist", "Naturalist", "Record 20 distinct species", "exploration", distinctAtLeast(20, func(l *models.DiveLog) []string {
		var out []string
		for _, s := range l.SightingList() {
			if s.Species != "" {
				out = append(out, s.Species)
			}
		}
		return out
	})},
	{"buddy-system", "Buddy System", "Dive with 5 different buddies", "social", distinctAtLeast(5, func(l *models.DiveLog) []string { return l.BuddyList() })},
	{"shutterbug", "Shutterbug", "Attach 50 photos across your logs", "social", func(logs []models.DiveLog) bool {
		total := 0
		for i := range logs {
			total += len(logs[i].PhotoKeyList())
		}
		return total >= 50
	}},
}

func countAtLeast(n int) BadgePredicate {
	return func(logs []models.DiveLog) bool { return len(logs) >= n }
}

func anyLog(match func(l *models.DiveLog) bool) BadgePredicate {
	return func(logs []models.DiveLog) bool {
		for i := range logs {
			if match(&logs[i]) {
				return true
			}
		}
		return false
	}
}

func distinctAtLeast(n int, values func(l *models.DiveLog) []string) BadgePredicate {
	return func(logs []models.DiveLog) bool {
		seen := make(map[string]struct{})
		for i := range logs {
			for _, v := range values(&logs[i]) {
				seen[v] = struct{}{}
				if len(seen) >= n {
					return true
				}
			}
		}
		return len(seen) >= n
	}
}

// EvaluateBadges returns the catalog badge IDs unlocked by the given
// logs. Pure; empty input yields the empty set.
func EvaluateBadges(logs []models.DiveLog) []string {
	var unlocked []string
	for _, b := range Catalog {
		if b.Predicate(logs) {
			unlocked = append(unlocked, b.ID)
		}
	}
	return unlocked
}

type BadgeService struct {
	db     *gorm.DB
	store  storage.ObjectStore
	filter *ContentFilter
}

func NewBadgeService(db *gorm.DB, store storage.ObjectStore, filter *ContentFilter) *BadgeService {
	return &BadgeService{db: db, store: store, filter: filter}
}

// Achievements returns the unified list: every catalog badge with its
// computed unlock state, followed by the user's custom badges, which
// are unlocked by construction.
func (s *BadgeService) Achievements(userID uuid.UUID) ([]dto.Achievement, error) {
	var logs []models.DiveLog
	if err := s.db.Scopes(session.ForUser(userID)).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load dive logs: %w", err)
	}

	unlocked := make(map[string]bool)
	for _, id := range EvaluateBadges(logs) {
		unlocked[id] = true
	}

	out := make([]dto.Achievement, 0, len(Catalog))
	for _, b := range Catalog {
		out = append(out, dto.Achievement{
			ID:          b.ID,
			Source:      dto.AchievementComputed,
			Name:        b.Name,
			Description: b.Description,
			Category:    b.Category,
			Unlocked:    unlocked[b.ID],
		})
	}

	var custom []models.CustomBadge
	if err := s.db.Scopes(session.ForUser(userID)).Order("created_at ASC").Find(&custom).Error; err != nil {
		return nil, fmt.Errorf("failed to load custom badges: %w", err)
	}
	for i := range custom {
		b := &custom[i]
		created := b.CreatedAt
		out = append(out, dto.Achievement{
			ID:          b.ID.String(),
			Source:      dto.AchievementStored,
			Name:        b.Name,
			Description: b.Description,
			Category:    b.Category,
			IconKey:     b.IconKey,
			Unlocked:    true,
			CreatedAt:   &created,
		})
	}

	return out, nil
}

func (s *BadgeService) CreateCustom(userID uuid.UUID, req *dto.CreateCustomBadgeRequest) (*models.CustomBadge, error) {
	if req.Name == "" {
		return nil, errors.New("badge name is required")
	}
	if ok, reason := s.filter.Check(req.Name + " " + req.Description); !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadgeRejected, reason)
	}

	badge := models.CustomBadge{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if badge.Category == "" {
		badge.Category = "personal"
	}

	if req.Icon != nil {
		data, err := base64.StdEncoding.DecodeString(req.Icon.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid icon data: %w", err)
		}
		key := storage.BadgeIconKey(userID, badge.ID, req.Icon.ContentType)
		if err := s.store.Upload(context.Background(), key, data, req.Icon.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload badge icon: %w", err)
		}
		badge.IconKey = key
	}

	if err := s.db.Create(&badge).Error; err != nil {
		return nil, fmt.Errorf("failed to create badge: %w", err)
	}
	return &badge, nil
}

func (s *BadgeService) DeleteCustom(userID, badgeID uuid.UUID) error {
	var badge models.CustomBadge
	if err := s.db.Scopes(session.ForUser(userID)).First(&badge, "id = ?", badgeID).Error; err != nil {
		return ErrBadgeNotFound
	}

	if err := s.db.Delete(&badge).Error; err != nil {
		return fmt.Errorf("failed to delete badge: %w", err)
	}

	if badge.IconKey != "" {
		if err := s.store.Delete(context.Background(), badge.IconKey); err != nil {
			slog.Error("failed to delete badge icon", "key", badge.IconKey, "error", err)
		}
	}
	return nil
}
