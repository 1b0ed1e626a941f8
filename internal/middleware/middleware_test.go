package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OmarEmad62/ATC-01111780082/internal/auth"
	"github.com/OmarEmad62/ATC-01111780082/internal/dto"
	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// --- ErrorHandler ---

func TestErrorHandler_HTTPError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/events/x")

	ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Event not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Event not found", resp.Message)
	assert.Empty(t, resp.Error)
}

func TestErrorHandler_InternalDetailOnlyFor5xx(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/bookings")

	ErrorHandler(echo.NewHTTPError(http.StatusInternalServerError, "Server error").SetInternal(errors.New("db down")), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Server error", resp.Message)
	assert.Equal(t, "db down", resp.Error)

	c, rec = newContext(http.MethodPost, "/api/v1/bookings")
	ErrorHandler(echo.NewHTTPError(http.StatusBadRequest, "bad").SetInternal(errors.New("hidden")), c)
	assert.Empty(t, decodeError(t, rec).Error)
}

func TestErrorHandler_PlainError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")

	ErrorHandler(errors.New("boom"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Server error", resp.Message)
	assert.Equal(t, "boom", resp.Error)
}

// --- Auth / AdminOnly ---

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func TestAuth_MissingToken(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/v1/bookings/my-bookings")
	tokens := auth.NewTokenManager("secret", time.Hour)

	err := Auth(tokens)(okHandler)(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/v1/bookings/my-bookings")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer garbage")

	err := Auth(auth.NewTokenManager("secret", time.Hour))(okHandler)(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	token, err := tokens.Issue(userID, models.RoleUser)
	require.NoError(t, err)

	c, rec := newContext(http.MethodGet, "/api/v1/bookings/my-bookings")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	var seen Identity
	err = Auth(tokens)(func(c echo.Context) error {
		seen, _ = CurrentUser(c)
		return okHandler(c)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, seen.UserID)
	assert.False(t, seen.IsAdmin())
}

func TestAdminOnly(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/events")
	err := AdminOnly(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	c, _ = newContext(http.MethodPost, "/api/v1/events")
	SetIdentity(c, Identity{UserID: uuid.New(), Role: models.RoleUser})
	err = AdminOnly(okHandler)(c)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	c, rec := newContext(http.MethodPost, "/api/v1/events")
	SetIdentity(c, Identity{UserID: uuid.New(), Role: models.RoleAdmin})
	assert.NoError(t, AdminOnly(okHandler)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// --- RequestValidator ---

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(&dto.CreateBookingRequest{})
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "eventId is required", he.Message)

	err = v.Validate(&dto.CreateEventRequest{
		Name:        "Jazz Night",
		Description: "Live jazz",
		Category:    "Cooking",
		Date:        time.Now(),
		Venue:       "Hall A",
		Capacity:    10,
	})
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Contains(t, he.Message, "category must be one of")

	assert.NoError(t, v.Validate(&dto.CreateBookingRequest{EventID: uuid.NewString()}))
}
