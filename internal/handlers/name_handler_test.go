package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/Leeseryong88/logbook/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNameCheckApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	profileService := services.NewProfileService(db, nil, services.NewContentFilter(), services.NewProfileHub())
	handler := NewNameHandler(profileService)

	app := fiber.New()
	app.Get("/api/names/check", handler.Check)
	return app, mock
}

func TestNameCheck_Available(t *testing.T) {
	app, mock := newNameCheckApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/names/check?name=Fresh+Name", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NameAvailabilityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNameCheck_Taken(t *testing.T) {
	app, mock := newNameCheckApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "display_name_reservations" WHERE key = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Normalization means the padded variant collides with the stored form.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/names/check?name=++Ocean+++Explorer++", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NameAvailabilityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Available)
}

func TestNameCheck_MissingParam(t *testing.T) {
	app, _ := newNameCheckApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/names/check", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNameCheck_WhitespaceOnlyIsUnavailable(t *testing.T) {
	app, _ := newNameCheckApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/names/check?name=+++", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NameAvailabilityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Available)
}

func TestNameCheck_WrongMethod(t *testing.T) {
	app, _ := newNameCheckApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/names/check", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
