package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liviabarbosax/dashboard-financeiro/filters"
	"github.com/liviabarbosax/dashboard-financeiro/models"
	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

// GetDashboard entrega o snapshot derivado completo: KPIs, painel de
// meta, séries mensais, top produtos e atividade recente.
func (h *Handler) GetDashboard(c *gin.Context) {
	views := h.recon.Views()
	c.JSON(http.StatusOK, gin.H{
		"kpis":             views.KPIs,
		"meta":             views.Goal,
		"lucroPorMes":      views.MonthlyProfit,
		"vendasPorMes":     views.MonthlySales,
		"custoLucro":       views.CostVsProfit,
		"topProdutos":      views.TopProducts,
		"atividadeRecente": views.RecentActivity,
		"saldoFinal":       utils.FormatCurrency(views.KPIs.FinalBalance),
	})
}

// GetSummary é o resumo financeiro, opcionalmente restrito a uma
// competência mês/ano.
func (h *Handler) GetSummary(c *gin.Context) {
	month := c.Query("mes")
	year := c.Query("ano")

	orders := filters.ByMonthYear(h.store.Orders(), month, year)
	c.JSON(http.StatusOK, gin.H{
		"resumo":           h.engine.Summary(orders),
		"lucroPorMes":      h.engine.MonthlyProfit(orders),
		"metodosPagamento": h.engine.PaymentMethods(orders),
	})
}

// GetClosing é a visão de fechamento de mês.
func (h *Handler) GetClosing(c *gin.Context) {
	views := h.recon.Views()
	c.JSON(http.StatusOK, gin.H{
		"fechamento":    views.Closing,
		"configuracoes": h.store.Settings(),
	})
}

// OpenNewMonth abre um mês novo: o saldo final vigente vira o saldo
// inicial e o mês de referência precisa estar definido.
func (h *Handler) OpenNewMonth(c *gin.Context) {
	settings := h.store.Settings()
	if settings.ReferenceMonth == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selecione o mês de referência primeiro"})
		return
	}

	closing := h.engine.Closing(h.store.Orders(), settings)
	newBalance := closing.FinalBalance
	h.recon.UpdateConfig(models.SettingsPatch{InitialBalance: &newBalance})

	c.JSON(http.StatusOK, gin.H{
		"message":      "Novo mês aberto com saldo inicial de " + utils.FormatCurrency(newBalance),
		"saldoInicial": newBalance,
	})
}

// GetReport exporta o relatório em JSON; os formatos PDF/planilha ficam
// com os colaboradores externos, que recebem esse mesmo shape.
func (h *Handler) GetReport(c *gin.Context) {
	orders := h.store.Orders()
	views := h.recon.Views()

	c.Header("Content-Disposition",
		"attachment; filename=relatorio-financeiro-"+time.Now().Format("2006-01-02")+".json")
	c.JSON(http.StatusOK, gin.H{
		"saldoInicial": h.store.Settings().InitialBalance,
		"totalPedidos": views.KPIs.OrderCount,
		"totalVendas":  views.KPIs.TotalSales,
		"lucroTotal":   views.KPIs.TotalProfit,
		"pedidos":      orders,
	})
}
