package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Settings())
}

// UpdateSettings aplica um merge raso: só os campos enviados mudam.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	if !h.recon.UpdateConfig(patch) {
		c.JSON(http.StatusOK, gin.H{
			"configuracoes": h.store.Settings(),
			"warning":       "Erro ao salvar dados localmente",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracoes": h.store.Settings()})
}

func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.store.Theme()})
}

func (h *Handler) SetTheme(c *gin.Context) {
	var input struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	if !h.store.SetTheme(input.Theme) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tema inválido, use light ou dark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": input.Theme})
}
