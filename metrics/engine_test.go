package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

func fixedEngine(t time.Time) *Engine {
	return &Engine{Now: func() time.Time { return t }}
}

func order(date, product string, gross, fee, cost float64) models.Order {
	o := models.Order{Date: date, Product: product, GrossValue: gross, FeeRate: fee, SupplierCost: cost}
	o.Recalculate()
	return o
}

func TestKPIsEmptyCollection(t *testing.T) {
	e := NewEngine()
	got := e.KPIs(nil, models.DefaultSettings())
	assert.Equal(t, 0.0, got.TotalSales)
	assert.Equal(t, 0.0, got.TotalProfit)
	assert.Equal(t, 0, got.OrderCount)
	assert.Equal(t, 0.0, got.AverageTicket)
	assert.Equal(t, 0.0, got.ProfitMargin)
}

func TestKPIsAggregation(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-10", "Fone", 100, 10, 50),
		order("2024-01-12", "Capinha", 200, 10, 80),
	}
	settings := models.Settings{InitialBalance: 1000, ProfitGoal: 10000}

	got := e.KPIs(orders, settings)
	assert.Equal(t, 300.0, got.TotalSales)
	assert.InDelta(t, 140.0, got.TotalProfit, 1e-9) // 40 + 100
	assert.Equal(t, 2, got.OrderCount)
	assert.Equal(t, 150.0, got.AverageTicket)
	assert.InDelta(t, 46.666, got.ProfitMargin, 0.001)
	assert.InDelta(t, 1140.0, got.FinalBalance, 1e-9)
}

func TestMonthlyProfitGrouping(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-05", "A", 100, 0, 0),
		order("2024-01-20", "B", 100, 0, 0),
		order("2024-02-01", "C", 100, 0, 0),
		order("data-invalida", "D", 100, 0, 0),
	}
	// Taxa zerada derruba o líquido e o lucro para 0; força os valores.
	orders[0].Profit = 60
	orders[1].Profit = 40
	orders[2].Profit = 200
	orders[3].Profit = 999

	got := e.MonthlyProfit(orders)
	assert.Equal(t, map[string]float64{"01/2024": 100, "02/2024": 200}, got)
}

func TestMonthlySalesGrouping(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-03-01", "A", 150, 10, 50),
		order("2024-03-15", "B", 50, 10, 10),
	}
	got := e.MonthlySales(orders)
	assert.Equal(t, map[string]float64{"03/2024": 200}, got)
}

func TestGoalProgress(t *testing.T) {
	e := fixedEngine(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	orders := []models.Order{order("2024-01-05", "A", 500, 50, 0)}
	orders[0].Profit = 250

	got := e.Goal(orders, models.Settings{ProfitGoal: 1000})
	assert.Equal(t, 25.0, got.ProgressPercent)
	assert.Equal(t, 750.0, got.Remaining)
	assert.Equal(t, 31, got.DaysInMonth)
	assert.Equal(t, 21, got.DaysRemaining)
	assert.InDelta(t, 750.0/21, got.RequiredDaily, 1e-9)
	assert.Equal(t, 25.0, got.AchievedDaily)
}

func TestGoalProgressCapsAtHundred(t *testing.T) {
	e := fixedEngine(time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC))
	orders := []models.Order{order("2024-01-05", "A", 100, 10, 10)}
	orders[0].Profit = 5000

	got := e.Goal(orders, models.Settings{ProfitGoal: 1000})
	assert.Equal(t, 100.0, got.ProgressPercent)
	assert.Equal(t, 0.0, got.Remaining)
	assert.Equal(t, 0, got.DaysRemaining)
	assert.Equal(t, 0.0, got.RequiredDaily)
}

func TestGoalZeroOrNegativeIsZeroProgress(t *testing.T) {
	e := fixedEngine(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	orders := []models.Order{order("2024-01-05", "A", 100, 10, 10)}

	for _, goal := range []float64{0, -500} {
		got := e.Goal(orders, models.Settings{ProfitGoal: goal})
		assert.Equal(t, 0.0, got.ProgressPercent, "meta %v", goal)
	}
}

func TestTopProductsOrderingAndTieBreak(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-01", "Capinha", 50, 10, 10),
		order("2024-01-02", "Fone", 300, 10, 100),
		order("2024-01-03", "Película", 50, 10, 10),
		order("2024-01-04", "Fone", 100, 10, 30),
		order("2024-01-05", "", 20, 10, 5),
	}

	got := e.TopProducts(orders, 10)
	assert.Len(t, got, 4)
	assert.Equal(t, "Fone", got[0].Product)
	assert.Equal(t, 400.0, got[0].Sales)
	assert.Equal(t, 2, got[0].Count)
	// Empate 50 x 50 mantém a ordem de primeira aparição.
	assert.Equal(t, "Capinha", got[1].Product)
	assert.Equal(t, "Película", got[2].Product)
	assert.Equal(t, "Não Informado", got[3].Product)

	top2 := e.TopProducts(orders, 2)
	assert.Len(t, top2, 2)
	assert.Equal(t, "Fone", top2[0].Product)
}

func TestPaymentMethodsPercent(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-01", "A", 300, 10, 10),
		order("2024-01-02", "B", 100, 10, 10),
	}
	orders[0].PaymentMethod = "Pix"
	orders[1].PaymentMethod = "Cartão"

	got := e.PaymentMethods(orders)
	assert.Len(t, got, 2)
	assert.Equal(t, "Pix", got[0].Method)
	assert.Equal(t, 75.0, got[0].Percent)
	assert.Equal(t, 25.0, got[1].Percent)
}

func TestSummaryFeesAndTotals(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-01", "A", 100, 10, 50),
		order("2024-01-02", "B", 200, 20, 80),
	}

	got := e.Summary(orders)
	assert.Equal(t, 300.0, got.TotalSales)
	assert.InDelta(t, 50.0, got.TotalFees, 1e-9)     // 10 + 40
	assert.InDelta(t, 250.0, got.TotalReceived, 1e-9) // 90 + 160
	assert.Equal(t, 130.0, got.TotalPaid)
	assert.InDelta(t, 120.0, got.TotalProfit, 1e-9)
}

func TestClosingActiveDays(t *testing.T) {
	e := NewEngine()
	orders := []models.Order{
		order("2024-01-05", "A", 100, 10, 50),
		order("2024-01-20", "B", 100, 10, 50),
		order("sem-data", "C", 100, 10, 50),
	}

	got := e.Closing(orders, models.Settings{InitialBalance: 500})
	assert.Equal(t, 16, got.ActiveDays)
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 500.0, got.InitialBalance)
	assert.InDelta(t, got.InitialBalance+got.NetProfit, got.FinalBalance, 1e-9)
}

func TestRecentActivityNewestFirst(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	old := order("2024-01-01", "Antigo", 100, 10, 50)
	old.CreatedAt = now.Add(-48 * time.Hour)
	old.OrderNumber = "001"
	recent := order("2024-01-10", "Novo", 100, 10, 50)
	recent.CreatedAt = now.Add(-5 * time.Minute)
	recent.OrderNumber = "002"

	got := e.RecentActivity([]models.Order{old, recent}, 5)
	assert.Len(t, got, 2)
	assert.Equal(t, "002", got[0].OrderNumber)
	assert.Equal(t, "5min atrás", got[0].TimeAgo)
	assert.Equal(t, "2d atrás", got[1].TimeAgo)
}

func TestTimeAgoBuckets(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Agora"},
		{10 * time.Minute, "10min atrás"},
		{3 * time.Hour, "3h atrás"},
		{50 * time.Hour, "2d atrás"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, e.timeAgo(now.Add(-tc.ago)))
	}
	assert.Equal(t, "Agora", e.timeAgo(time.Time{}))
}
