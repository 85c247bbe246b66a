package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/models"
	"github.com/Leeseryong88/logbook/internal/session"
	"github.com/Leeseryong88/logbook/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrDiveLogNotFound = errors.New("dive log not found")
	ErrInvalidDiveType = errors.New("invalid dive type")
	ErrForeignPhotoKey = errors.New("photo key does not belong to this user")
)

type DiveLogService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewDiveLogService(db *gorm.DB, store storage.ObjectStore) *DiveLogService {
	return &DiveLogService{db: db, store: store}
}

// List returns the owner's logs ordered by dive number, newest first.
func (s *DiveLogService) List(userID uuid.UUID, limit, offset int) ([]models.DiveLog, int64, error) {
	var logs []models.DiveLog
	var total int64

	if err := s.db.Model(&models.DiveLog{}).Scopes(session.ForUser(userID)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count dive logs: %w", err)
	}

	err := s.db.Scopes(session.ForUser(userID)).
		Order("dive_number DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list dive logs: %w", err)
	}

	return logs, total, nil
}

func (s *DiveLogService) Get(userID, logID uuid.UUID) (*models.DiveLog, error) {
	var log models.DiveLog
	if err := s.db.Scopes(session.ForUser(userID)).First(&log, "id = ?", logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiveLogNotFound
		}
		return nil, fmt.Errorf("failed to load dive log: %w", err)
	}
	return &log, nil
}

// Upsert creates or replaces a log by id and reconciles its photos:
// inline uploads become object keys, and keys the stored record had but
// the payload no longer references are deleted from storage after the
// row is saved. Blob deletion failures are logged, never fatal.
func (s *DiveLogService) Upsert(userID uuid.UUID, req *dto.UpsertDiveLogRequest) (*models.DiveLog, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dive log: %w", err)
	}
	if req.DiveType != "" && !validDiveType(req.DiveType) {
		return nil, ErrInvalidDiveType
	}

	logID := uuid.New()
	var previousKeys []string
	if req.ID != nil {
		existing, err := s.Get(userID, *req.ID)
		if err == nil {
			logID = existing.ID
			previousKeys = existing.PhotoKeyList()
		} else if !errors.Is(err, ErrDiveLogNotFound) {
			return nil, err
		} else {
			logID = *req.ID
		}
	}

	finalKeys, uploaded, err := s.reconcilePhotos(userID, logID, req.Photos)
	if err != nil {
		return nil, err
	}

	log := models.DiveLog{
		ID:            logID,
		UserID:        userID,
		DiveNumber:    req.DiveNumber,
		Date:          req.Date,
		Site:          req.Site,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		TimeIn:        req.TimeIn,
		TimeOut:       req.TimeOut,
		Duration:      req.Duration,
		MaxDepth:      req.MaxDepth,
		AvgDepth:      req.AvgDepth,
		StartPressure: req.StartPressure,
		EndPressure:   req.EndPressure,
		Visibility:    req.Visibility,
		WaterTemp:     req.WaterTemp,
		SuitThickness: req.SuitThickness,
		Weights:       req.Weights,
		DiveType:      req.DiveType,
		Notes:         req.Notes,
		Buddies:       mustJSON(req.Buddies),
		Sightings:     mustJSON(req.Sightings),
		PhotoKeys:     mustJSON(finalKeys),
		Rating:        req.Rating,
	}
	if log.DiveType == "" {
		log.DiveType = "fun"
	}

	if err := s.db.Save(&log).Error; err != nil {
		// The row failed; the blobs uploaded for it are now orphans.
		s.deleteBlobs(uploaded)
		return nil, fmt.Errorf("failed to save dive log: %w", err)
	}

	s.deleteBlobs(removedKeys(previousKeys, finalKeys))

	return &log, nil
}

// Delete removes the record and then every blob it referenced.
func (s *DiveLogService) Delete(userID, logID uuid.UUID) error {
	log, err := s.Get(userID, logID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(log).Error; err != nil {
		return fmt.Errorf("failed to delete dive log: %w", err)
	}

	s.deleteBlobs(log.PhotoKeyList())
	return nil
}

// Stats aggregates over the owner's full log list.
func (s *DiveLogService) Stats(userID uuid.UUID) (*dto.DiveStatsResponse, error) {
	var logs []models.DiveLog
	if err := s.db.Scopes(session.ForUser(userID)).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load dive logs: %w", err)
	}

	stats := &dto.DiveStatsResponse{
		ByDiveType: make(map[string]int),
		ByYear:     make(map[int]int),
	}
	sites := make(map[string]struct{})
	var depthSum float64

	for i := range logs {
		l := &logs[i]
		stats.TotalDives++
		stats.TotalBottomTime += l.Duration
		if l.MaxDepth > stats.MaxDepth {
			stats.MaxDepth = l.MaxDepth
		}
		depthSum += l.MaxDepth
		if l.Site != "" {
			sites[l.Site] = struct{}{}
		}
		stats.ByDiveType[l.DiveType]++
		stats.ByYear[l.Date.Year()]++
	}

	stats.DistinctSites = len(sites)
	if stats.TotalDives > 0 {
		stats.AvgMaxDepth = depthSum / float64(stats.TotalDives)
	}

	return stats, nil
}

// reconcilePhotos turns the payload's photo list into object keys.
// Existing keys must already sit under the caller's prefix; inline
// uploads are stored and replaced by their new keys. Returns the final
// key list plus the subset uploaded by this call.
func (s *DiveLogService) reconcilePhotos(userID, logID uuid.UUID, photos []dto.PhotoPayload) ([]string, []string, error) {
	finalKeys := make([]string, 0, len(photos))
	var uploaded []string

	for _, p := range photos {
		switch {
		case p.Key != "":
			if !storage.OwnedBy(p.Key, userID) {
				s.deleteBlobs(uploaded)
				return nil, nil, ErrForeignPhotoKey
			}
			finalKeys = append(finalKeys, p.Key)
		case p.Data != "":
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				s.deleteBlobs(uploaded)
				return nil, nil, fmt.Errorf("invalid photo data: %w", err)
			}
			key := storage.DivePhotoKey(userID, logID, p.ContentType)
			if err := s.store.Upload(context.Background(), key, data, p.ContentType); err != nil {
				s.deleteBlobs(uploaded)
				return nil, nil, fmt.Errorf("failed to upload photo: %w", err)
			}
			uploaded = append(uploaded, key)
			finalKeys = append(finalKeys, key)
		}
	}

	return finalKeys, uploaded, nil
}

func (s *DiveLogService) deleteBlobs(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(context.Background(), key); err != nil {
			slog.Error("failed to delete photo blob", "key", key, "error", err)
		}
	}
}

// removedKeys returns entries of prev that next no longer references.
func removedKeys(prev, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, k := range next {
		keep[k] = struct{}{}
	}
	var removed []string
	for _, k := range prev {
		if _, ok := keep[k]; !ok {
			removed = append(removed, k)
		}
	}
	return removed
}

func validDiveType(t string) bool {
	for _, dt := range models.DiveTypes {
		if dt == t {
			return true
		}
	}
	return false
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
