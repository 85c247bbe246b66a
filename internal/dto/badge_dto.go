package dto

import "time"

// Achievement sources.
const (
	AchievementComputed = "computed"
	AchievementStored   = "stored"
)

// Achievement is the unified view over catalog badges (unlock state
// computed from dive history) and custom badges (persisted rows).
type Achievement struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	IconKey     string     `json:"icon_key,omitempty"`
	Unlocked    bool       `json:"unlocked"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type CreateCustomBadgeRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Icon        *InlineUpload `json:"icon,omitempty"`
}
