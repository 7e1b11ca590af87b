package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/liviabarbosax/dashboard-financeiro/models"
	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

// Engine deriva todos os indicadores do dashboard a partir da coleção
// canônica. Não guarda estado próprio além do relógio, injetável nos
// testes.
type Engine struct {
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

type KPIs struct {
	TotalSales    float64 `json:"totalVendas"`
	TotalProfit   float64 `json:"lucroTotal"`
	OrderCount    int     `json:"totalPedidos"`
	AverageTicket float64 `json:"ticketMedio"`
	ProfitMargin  float64 `json:"margemLucro"`
	FinalBalance  float64 `json:"saldoFinal"`
}

type GoalPanel struct {
	Goal            float64 `json:"metaLucro"`
	Achieved        float64 `json:"alcancado"`
	Remaining       float64 `json:"restante"`
	ProgressPercent float64 `json:"progresso"`
	DaysInMonth     int     `json:"diasMes"`
	DaysRemaining   int     `json:"diasRestantes"`
	RequiredDaily   float64 `json:"mediaDiariaNecessaria"`
	AchievedDaily   float64 `json:"lucroMedioDia"`
}

type ProductStat struct {
	Product string  `json:"produto"`
	Sales   float64 `json:"vendas"`
	Profit  float64 `json:"lucro"`
	Count   int     `json:"quantidade"`
}

type PaymentMethodStat struct {
	Method  string  `json:"metodo"`
	Value   float64 `json:"valor"`
	Percent float64 `json:"percentual"`
}

type CostVsProfit struct {
	Costs  float64 `json:"custos"`
	Profit float64 `json:"lucro"`
}

type Summary struct {
	TotalSales    float64 `json:"totalVendas"`
	TotalFees     float64 `json:"totalTaxas"`
	TotalReceived float64 `json:"totalRecebido"`
	TotalPaid     float64 `json:"totalPago"`
	TotalProfit   float64 `json:"lucroTotal"`
}

type Closing struct {
	InitialBalance float64 `json:"saldoInicial"`
	TotalSales     float64 `json:"totalVendas"`
	TotalReceived  float64 `json:"totalRecebido"`
	Expenses       float64 `json:"despesas"`
	NetProfit      float64 `json:"lucroLiquido"`
	FinalBalance   float64 `json:"saldoFinal"`
	OrderCount     int     `json:"numeroPedidos"`
	AverageTicket  float64 `json:"ticketMedio"`
	ProfitMargin   float64 `json:"margemLucro"`
	ActiveDays     int     `json:"periodoAtivoDias"`
}

type Activity struct {
	OrderNumber string  `json:"numeroPedido"`
	Customer    string  `json:"cliente"`
	Product     string  `json:"produto"`
	GrossValue  float64 `json:"valorShopee"`
	Status      string  `json:"status"`
	TimeAgo     string  `json:"tempoDecorrido"`
}

func (e *Engine) KPIs(orders []models.Order, settings models.Settings) KPIs {
	var totalSales, totalProfit float64
	for _, o := range orders {
		totalSales += o.GrossValue
		totalProfit += o.Profit
	}
	return KPIs{
		TotalSales:    totalSales,
		TotalProfit:   totalProfit,
		OrderCount:    len(orders),
		AverageTicket: utils.AverageTicket(totalSales, len(orders)),
		ProfitMargin:  utils.ProfitMargin(totalProfit, totalSales),
		FinalBalance:  utils.FinalBalance(settings.InitialBalance, totalProfit),
	}
}

// Goal monta o painel de metas: progresso limitado a 100%, meta zerada ou
// negativa conta como 0% e os dias do calendário vêm do mês corrente.
func (e *Engine) Goal(orders []models.Order, settings models.Settings) GoalPanel {
	var profit float64
	for _, o := range orders {
		profit += o.Profit
	}

	goal := settings.ProfitGoal
	var progress, remaining float64
	if goal > 0 {
		progress = profit / goal * 100
		if progress > 100 {
			progress = 100
		}
		remaining = goal - profit
		if remaining < 0 {
			remaining = 0
		}
	}

	now := e.Now()
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysRemaining := daysInMonth - now.Day()
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	daysElapsed := now.Day()
	if daysElapsed < 1 {
		daysElapsed = 1
	}

	var requiredDaily float64
	if daysRemaining > 0 {
		requiredDaily = remaining / float64(daysRemaining)
	}

	return GoalPanel{
		Goal:            goal,
		Achieved:        profit,
		Remaining:       remaining,
		ProgressPercent: progress,
		DaysInMonth:     daysInMonth,
		DaysRemaining:   daysRemaining,
		RequiredDaily:   requiredDaily,
		AchievedDaily:   profit / float64(daysElapsed),
	}
}

// MonthlyProfit agrupa o lucro por mês de competência ("MM/YYYY").
func (e *Engine) MonthlyProfit(orders []models.Order) map[string]float64 {
	return groupByMonth(orders, func(o models.Order) float64 { return o.Profit })
}

// MonthlySales agrupa o valor bruto de venda por mês.
func (e *Engine) MonthlySales(orders []models.Order) map[string]float64 {
	return groupByMonth(orders, func(o models.Order) float64 { return o.GrossValue })
}

// groupByMonth ignora pedidos com data não parseável.
func groupByMonth(orders []models.Order, field func(models.Order) float64) map[string]float64 {
	grouped := make(map[string]float64)
	for _, o := range orders {
		t, ok := parseDate(o.Date)
		if !ok {
			continue
		}
		key := t.Format("01/2006")
		grouped[key] += field(o)
	}
	return grouped
}

// TopProducts ordena produtos por venda bruta decrescente, com desempate
// estável pela ordem de inserção. Pedido sem produto cai no grupo
// "Não Informado".
func (e *Engine) TopProducts(orders []models.Order, n int) []ProductStat {
	index := make(map[string]int)
	var stats []ProductStat
	for _, o := range orders {
		name := o.Product
		if name == "" {
			name = "Não Informado"
		}
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, ProductStat{Product: name})
		}
		stats[i].Sales += o.GrossValue
		stats[i].Profit += o.Profit
		stats[i].Count++
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Sales > stats[j].Sales })
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// PaymentMethods quebra o valor de venda por método de pagamento, com o
// percentual de cada um sobre o total.
func (e *Engine) PaymentMethods(orders []models.Order) []PaymentMethodStat {
	index := make(map[string]int)
	var stats []PaymentMethodStat
	var total float64
	for _, o := range orders {
		method := o.PaymentMethod
		if method == "" {
			method = "Não informado"
		}
		i, ok := index[method]
		if !ok {
			i = len(stats)
			index[method] = i
			stats = append(stats, PaymentMethodStat{Method: method})
		}
		stats[i].Value += o.GrossValue
		total += o.GrossValue
	}
	for i := range stats {
		if total > 0 {
			stats[i].Percent = stats[i].Value / total * 100
		}
	}
	return stats
}

func (e *Engine) CostVsProfit(orders []models.Order) CostVsProfit {
	var out CostVsProfit
	for _, o := range orders {
		out.Costs += o.SupplierCost
		out.Profit += o.Profit
	}
	return out
}

func (e *Engine) Summary(orders []models.Order) Summary {
	var s Summary
	for _, o := range orders {
		s.TotalSales += o.GrossValue
		s.TotalFees += o.GrossValue * o.FeeRate / 100
		s.TotalReceived += o.NetValue
		s.TotalPaid += o.SupplierCost
		s.TotalProfit += o.Profit
	}
	return s
}

func (e *Engine) Closing(orders []models.Order, settings models.Settings) Closing {
	var sales, received, expenses, profit float64
	for _, o := range orders {
		sales += o.GrossValue
		received += o.NetValue
		expenses += o.SupplierCost
		profit += o.Profit
	}

	c := Closing{
		InitialBalance: settings.InitialBalance,
		TotalSales:     sales,
		TotalReceived:  received,
		Expenses:       expenses,
		NetProfit:      profit,
		FinalBalance:   utils.FinalBalance(settings.InitialBalance, profit),
		OrderCount:     len(orders),
		AverageTicket:  utils.AverageTicket(sales, len(orders)),
		ProfitMargin:   utils.ProfitMargin(profit, sales),
	}

	var first, last time.Time
	for _, o := range orders {
		t, ok := parseDate(o.Date)
		if !ok {
			continue
		}
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}
	if !first.IsZero() {
		c.ActiveDays = int(last.Sub(first).Hours()/24) + 1
	}
	return c
}

// RecentActivity lista os n pedidos mais novos por instante de criação.
func (e *Engine) RecentActivity(orders []models.Order, n int) []Activity {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]Activity, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, Activity{
			OrderNumber: o.OrderNumber,
			Customer:    o.Customer,
			Product:     o.Product,
			GrossValue:  o.GrossValue,
			Status:      o.Status,
			TimeAgo:     e.timeAgo(o.CreatedAt),
		})
	}
	return out
}

func (e *Engine) timeAgo(t time.Time) string {
	if t.IsZero() {
		return "Agora"
	}
	diff := e.Now().Sub(t)
	switch {
	case diff < time.Minute:
		return "Agora"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + "min atrás"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "h atrás"
	default:
		return strconv.Itoa(int(diff.Hours()/24)) + "d atrás"
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
