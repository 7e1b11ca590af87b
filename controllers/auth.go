package controllers

import (
	"context"
	"net/http"
	"net/mail"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/liviabarbosax/dashboard-financeiro/config"
	"github.com/liviabarbosax/dashboard-financeiro/models"
	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

// Controle simples de tentativas por e-mail para o bloqueio temporário.
var (
	loginAttemptsMu sync.Mutex
	loginAttempts   = make(map[string]int)
	attemptsReset   = make(map[string]time.Time)
)

const (
	maxLoginAttempts   = 5
	attemptsWindowMins = 15
)

func tooManyAttempts(email string) bool {
	loginAttemptsMu.Lock()
	defer loginAttemptsMu.Unlock()
	if reset, ok := attemptsReset[email]; ok && time.Now().After(reset) {
		delete(loginAttempts, email)
		delete(attemptsReset, email)
	}
	return loginAttempts[email] >= maxLoginAttempts
}

func recordFailedAttempt(email string) {
	loginAttemptsMu.Lock()
	defer loginAttemptsMu.Unlock()
	if loginAttempts[email] == 0 {
		attemptsReset[email] = time.Now().Add(attemptsWindowMins * time.Minute)
	}
	loginAttempts[email]++
}

func clearAttempts(email string) {
	loginAttemptsMu.Lock()
	defer loginAttemptsMu.Unlock()
	delete(loginAttempts, email)
	delete(attemptsReset, email)
}

// Login autentica por e-mail/senha e carrega a sessão do usuário
// (restauração local, pull remoto, assinatura ao vivo).
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "O formato do email é inválido."})
		return
	}

	if tooManyAttempts(input.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Acesso temporariamente bloqueado. Tente novamente mais tarde."})
		return
	}

	// Em modo local não há base de usuários para autenticar.
	if config.UserCollection == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Autenticação indisponível no modo local"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := config.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			recordFailedAttempt(input.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha inválidos."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro de autenticação: " + err.Error()})
		return
	}

	if err := utils.VerifyPassword(user.Password, input.Password); err != nil {
		recordFailedAttempt(input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha inválidos."})
		return
	}
	clearAttempts(input.Email)

	userID := user.ID.Hex()
	token, err := utils.GenerateToken(userID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro de autenticação: " + err.Error()})
		return
	}

	h.recon.LoadForSession(ctx, userID)

	c.SetCookie("token", token, 24*3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": userID, "email": user.Email, "name": user.Name},
		"theme": h.store.Theme(),
	})
}

// Logout encerra a sessão e zera o estado em memória.
func (h *Handler) Logout(c *gin.Context) {
	h.recon.Logout()
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}

// Register cria um usuário novo com a senha já com hash.
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "O formato do email é inválido."})
		return
	}

	if config.UserCollection == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cadastro indisponível no modo local"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := config.UserCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar usuário"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar usuário"})
		return
	}

	user := models.User{Email: input.Email, Password: hashed, Name: input.Name}
	if _, err := config.UserCollection.InsertOne(ctx, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar usuário"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuário criado"})
}
