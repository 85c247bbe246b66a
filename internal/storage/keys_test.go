package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyLayout(t *testing.T) {
	userID := uuid.New()
	logID := uuid.New()

	assert.Equal(t, "users/"+userID.String()+"/", UserPrefix(userID))

	photo := DivePhotoKey(userID, logID, "image/jpeg")
	assert.True(t, strings.HasPrefix(photo, DiveLogPrefix(userID, logID)))
	assert.True(t, strings.HasSuffix(photo, ".jpg"))

	profile := ProfilePhotoKey(userID, "image/png")
	assert.True(t, strings.HasPrefix(profile, UserPrefix(userID)+"profile/"))
	assert.True(t, strings.HasSuffix(profile, ".png"))

	cert := CertificateKey(userID, "application/pdf")
	assert.True(t, strings.HasSuffix(cert, ".pdf"))

	badgeID := uuid.New()
	icon := BadgeIconKey(userID, badgeID, "image/webp")
	assert.Contains(t, icon, badgeID.String())
	assert.True(t, strings.HasSuffix(icon, ".webp"))
}

func TestOwnedBy(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	key := DivePhotoKey(userID, uuid.New(), "image/jpeg")
	assert.True(t, OwnedBy(key, userID))
	assert.False(t, OwnedBy(key, otherID))
	assert.False(t, OwnedBy("", userID))
	assert.False(t, OwnedBy("users/", userID))
}

func TestDistinctKeysPerUpload(t *testing.T) {
	userID := uuid.New()
	logID := uuid.New()

	a := DivePhotoKey(userID, logID, "image/jpeg")
	b := DivePhotoKey(userID, logID, "image/jpeg")
	assert.NotEqual(t, a, b)
}
