package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"reminderpro-backend/config"
	"reminderpro-backend/models"
	"reminderpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTest wires config.DB to a fresh in-memory database and returns
// a router with the routes under test.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:controllers-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EmergencyContact{},
		&models.Tier{},
		&models.Event{},
		&models.Notification{},
	))

	config.DB = db
	t.Setenv("JWT_SECRET", "test-secret")
	return db
}

func createVerifiedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:           email,
		Password:        "str0ngpassword",
		Name:            "Test User",
		Phone:           "+15550001111",
		IsEmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user.ID.String(), user.IsStaff)
	require.NoError(t, err)
	return "Bearer " + token
}

func performJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func midnightUTC(daysFromNow int) time.Time {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, daysFromNow)
}
