package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ocean Explorer", "ocean explorer"},
		{"  Ocean   Explorer  ", "ocean explorer"},
		{"OCEAN EXPLORER", "ocean explorer"},
		{"ocean\texplorer", "ocean explorer"},
		{"", ""},
		{"   ", ""},
		{"single", "single"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDisplayName(tc.in), "input %q", tc.in)
	}
}

func newProfileService(t *testing.T) (*ProfileService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewProfileService(db, nil, NewContentFilter(), NewProfileHub()), mock
}

func TestReserveDisplayName_FreshName(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "display_name", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "display_name_reservations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ReserveDisplayName(userID, "Ocean Explorer", "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDisplayName_TakenByOther(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()
	otherID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "display_name", "created_at", "updated_at"}).
			AddRow("ocean explorer", otherID, "Ocean Explorer", time.Now(), time.Now()))
	mock.ExpectRollback()

	err := svc.ReserveDisplayName(userID, "ocean  EXPLORER", "")
	require.ErrorIs(t, err, ErrNameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDisplayName_RaceLoser(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	// The recheck sees no row, but a concurrent commit wins the insert.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "display_name", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "display_name_reservations"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "display_name_reservations_pkey" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := svc.ReserveDisplayName(userID, "Ocean Explorer", "")
	require.ErrorIs(t, err, ErrNameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDisplayName_SameUserRefresh(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "display_name", "created_at", "updated_at"}).
			AddRow("ocean explorer", userID, "Ocean Explorer", time.Now(), time.Now()))
	mock.ExpectExec(`UPDATE "display_name_reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Re-claiming a held key only refreshes the display form.
	err := svc.ReserveDisplayName(userID, "Ocean  Explorer", "Ocean Explorer")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDisplayName_ReleasesPreviousKey(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "display_name", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "display_name_reservations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "display_name_reservations" WHERE key = (.+) AND user_id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ReserveDisplayName(userID, "Reef Ranger", "Ocean Explorer")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDisplayName_InvalidName(t *testing.T) {
	svc, _ := newProfileService(t)

	err := svc.ReserveDisplayName(uuid.New(), "   ", "")
	require.ErrorIs(t, err, ErrInvalidName)

	err = svc.ReserveDisplayName(uuid.New(), "visit www.dive.example now", "")
	require.ErrorIs(t, err, ErrInvalidName)
}

func profileUserRow(userID uuid.UUID, displayName string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "display_name", "photo_key"}).
		AddRow(userID, "diver@example.com", displayName, "")
}

// A rejected bio must abort the update before the reservation
// transaction runs; the user's current name stays held. The mock has no
// reservation expectations, so any SELECT, INSERT or DELETE against
// display_name_reservations would fail the test.
func TestUpdate_RejectedBioKeepsReservation(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE`).
		WillReturnRows(profileUserRow(userID, "Ocean Explorer"))

	newName := "Reef Ranger"
	badBio := "follow me at www.dive.example for more"
	_, err := svc.Update(userID, &dto.UpdateProfileRequest{
		DisplayName: &newName,
		Bio:         &badBio,
	})
	require.ErrorIs(t, err, ErrInvalidName)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Same ordering guarantee for an undecodable photo: the failure happens
// before any reservation statement.
func TestUpdate_BadPhotoKeepsReservation(t *testing.T) {
	svc, mock := newProfileService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE`).
		WillReturnRows(profileUserRow(userID, "Ocean Explorer"))

	newName := "Reef Ranger"
	_, err := svc.Update(userID, &dto.UpdateProfileRequest{
		DisplayName: &newName,
		Photo:       &dto.InlineUpload{Data: "%%not-base64%%", ContentType: "image/jpeg"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid photo data")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAvailability(t *testing.T) {
	svc, mock := newProfileService(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	available, err := svc.CheckAvailability("Fresh Name")
	require.NoError(t, err)
	assert.True(t, available)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	available, err = svc.CheckAvailability("Taken Name")
	require.NoError(t, err)
	assert.False(t, available)

	_, err = svc.CheckAvailability("   ")
	require.ErrorIs(t, err, ErrInvalidName)

	require.NoError(t, mock.ExpectationsWereMet())
}
