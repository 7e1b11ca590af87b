package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/liviabarbosax/dashboard-financeiro/config"
)

// Em modo local (MongoDB indisponível no boot) as coleções ficam nil; os
// endpoints de autenticação precisam degradar com resposta limpa, nunca
// com pânico.
func localModeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(nil, nil, nil)
	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/registration", h.Register)
	return r
}

func TestLoginDegradesInLocalMode(t *testing.T) {
	if config.UserCollection != nil {
		t.Skip("teste requer modo local, sem coleção de usuários")
	}
	r := localModeRouter()

	body := `{"email":"livia@example.com","password":"senha123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "modo local")
}

func TestRegisterDegradesInLocalMode(t *testing.T) {
	if config.UserCollection != nil {
		t.Skip("teste requer modo local, sem coleção de usuários")
	}
	r := localModeRouter()

	body := `{"email":"livia@example.com","password":"senha123","name":"Livia"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/registration", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "modo local")
}

func TestLoginStillValidatesInputInLocalMode(t *testing.T) {
	r := localModeRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"nao-e-email","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "formato do email")
}
