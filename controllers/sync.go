package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liviabarbosax/dashboard-financeiro/middleware"
	"github.com/liviabarbosax/dashboard-financeiro/remote"
)

// ForceSync é a sincronização manual. Uma sincronização já em andamento
// não é enfileirada: a chamada é pulada e o cliente avisado.
func (h *Handler) ForceSync(c *gin.Context) {
	res := h.recon.ForceSync(c.Request.Context())
	middleware.SyncResultsTotal.WithLabelValues("push", res.String()).Inc()

	switch res {
	case remote.ResultOK:
		c.JSON(http.StatusOK, gin.H{"message": "Dados sincronizados com sucesso!", "result": res.String()})
	case remote.ResultSkipped:
		c.JSON(http.StatusOK, gin.H{"message": "Sincronização pulada", "result": res.String()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro na sincronização", "result": res.String()})
	}
}

// SyncStatus informa o estado de conectividade para o indicador da
// interface: Sincronizado, Online (Local) ou Offline.
func (h *Handler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  h.recon.SyncStatus(),
		"phase":   h.recon.Phase(),
		"dirty":   h.recon.Dirty(),
		"syncing": h.recon.SyncInProgress(),
	})
}
