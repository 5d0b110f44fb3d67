package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"reminderpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)
	auth.GET("/me", utils.AuthMiddleware(), Me)
	return r
}

func TestRegisterLoginMe(t *testing.T) {
	setupTest(t)
	router := authRouter()

	w := performJSON(router, http.MethodPost, "/auth/register", "",
		`{"email":"new@example.com","phone":"+15550009999","name":"New User","password":"str0ngpassword"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(router, http.MethodPost, "/auth/login", "",
		`{"email":"new@example.com","password":"str0ngpassword"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = performJSON(router, http.MethodGet, "/auth/me", "Bearer "+resp.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new@example.com")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTest(t)
	createVerifiedUser(t, db, "taken@example.com")
	router := authRouter()

	w := performJSON(router, http.MethodPost, "/auth/register", "",
		`{"email":"taken@example.com","phone":"+15550009999","name":"New User","password":"str0ngpassword"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupTest(t)
	createVerifiedUser(t, db, "someone@example.com")
	router := authRouter()

	w := performJSON(router, http.MethodPost, "/auth/login", "",
		`{"email":"someone@example.com","password":"wrongpassword"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
