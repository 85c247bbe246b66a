package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Object key layout. Everything a user owns lives under users/{uid}/ so
// account deletion can sweep one prefix.

func UserPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("users/%s/", userID)
}

func DiveLogPrefix(userID, logID uuid.UUID) string {
	return fmt.Sprintf("users/%s/logs/%s/", userID, logID)
}

func DivePhotoKey(userID, logID uuid.UUID, contentType string) string {
	return DiveLogPrefix(userID, logID) + uuid.NewString() + extFor(contentType)
}

func ProfilePhotoKey(userID uuid.UUID, contentType string) string {
	return UserPrefix(userID) + "profile/" + uuid.NewString() + extFor(contentType)
}

func CertificateKey(userID uuid.UUID, contentType string) string {
	return UserPrefix(userID) + "certs/" + uuid.NewString() + extFor(contentType)
}

func BadgeIconKey(userID, badgeID uuid.UUID, contentType string) string {
	return UserPrefix(userID) + "badges/" + badgeID.String() + extFor(contentType)
}

// OwnedBy reports whether a key sits under the user's prefix. Upsert
// payloads may only reference keys the caller owns.
func OwnedBy(key string, userID uuid.UUID) bool {
	return strings.HasPrefix(key, UserPrefix(userID))
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}
