package reconciler

import (
	"fmt"

	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

// SendGoalReport monta o resumo diário de progresso da meta e envia por
// e-mail. Roda pelo agendador; falha de envio é apenas logada.
func (c *Controller) SendGoalReport(from, to string) {
	if from == "" || to == "" {
		return
	}

	views := c.Views()
	goal := views.Goal

	body := fmt.Sprintf(
		"Resumo diário da meta de lucro\n\n"+
			"Meta do mês: %s\n"+
			"Lucro alcançado: %s (%.0f%%)\n"+
			"Restante: %s\n"+
			"Dias restantes no mês: %d\n"+
			"Média diária necessária: %s\n"+
			"Lucro médio por dia: %s\n\n"+
			"Total de pedidos: %d | Vendas: %s\n",
		utils.FormatCurrency(goal.Goal),
		utils.FormatCurrency(goal.Achieved), goal.ProgressPercent,
		utils.FormatCurrency(goal.Remaining),
		goal.DaysRemaining,
		utils.FormatCurrency(goal.RequiredDaily),
		utils.FormatCurrency(goal.AchievedDaily),
		views.KPIs.OrderCount,
		utils.FormatCurrency(views.KPIs.TotalSales),
	)

	if err := utils.SendEmail(from, to, "Dashboard Financeiro - progresso da meta", body); err != nil {
		c.log.WithError(err).Warn("erro ao enviar relatório de meta")
		return
	}
	c.log.Info("relatório diário de meta enviado")
}
