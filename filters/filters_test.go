package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

func testOrders() []models.Order {
	return []models.Order{
		{LocalID: "1", Date: "2024-01-05", Product: "Fone", Status: models.StatusPendente},
		{LocalID: "2", Date: "2024-01-15", Product: "Capinha", Status: models.StatusPago},
		{LocalID: "3", Date: "2024-02-01", Product: "Fone", Status: models.StatusPago},
		{LocalID: "4", Date: "2024-02-20", Product: "Película", Status: models.StatusCancelado},
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.LocalID)
	}
	return out
}

func TestFilterByDateRangeInclusive(t *testing.T) {
	got := Filter(testOrders(), Criteria{StartDate: "2024-01-15", EndDate: "2024-02-01"})
	assert.Equal(t, []string{"2", "3"}, ids(got))
}

func TestFilterByProductAndStatus(t *testing.T) {
	got := Filter(testOrders(), Criteria{Product: "Fone"})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = Filter(testOrders(), Criteria{Product: "Fone", Status: models.StatusPago})
	assert.Equal(t, []string{"3"}, ids(got))

	got = Filter(testOrders(), Criteria{Product: "Teclado"})
	assert.Empty(t, got)
}

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	orders := testOrders()
	got := Filter(orders, Criteria{})
	assert.Equal(t, ids(orders), ids(got))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	orders := testOrders()
	Filter(orders, Criteria{Status: models.StatusPago})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(orders))
}

func TestEngineApplyAndClear(t *testing.T) {
	e := NewEngine()
	orders := testOrders()

	view := e.Apply(orders, Criteria{Status: models.StatusPago})
	assert.Equal(t, []string{"2", "3"}, ids(view))
	assert.Equal(t, []string{"2", "3"}, ids(e.View()))
	assert.False(t, e.Criteria().IsZero())

	// Limpar restaura a coleção completa, não a visão anterior.
	cleared := e.Clear(orders)
	assert.Equal(t, ids(orders), ids(cleared))
	assert.True(t, e.Criteria().IsZero())
}

func TestEngineReapplyAfterCollectionChange(t *testing.T) {
	e := NewEngine()
	orders := testOrders()
	e.Apply(orders, Criteria{Product: "Fone"})

	orders = append(orders, models.Order{LocalID: "5", Date: "2024-03-01", Product: "Fone"})
	view := e.Reapply(orders)
	assert.Equal(t, []string{"1", "3", "5"}, ids(view))
}

func TestByMonthYear(t *testing.T) {
	orders := testOrders()

	got := ByMonthYear(orders, "01", "2024")
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got = ByMonthYear(orders, "02", "")
	assert.Equal(t, []string{"3", "4"}, ids(got))

	got = ByMonthYear(orders, "", "2024")
	assert.Len(t, got, 4)

	got = ByMonthYear(orders, "", "")
	assert.Len(t, got, 4)

	// Pedido sem data parseável fica de fora quando há competência.
	withBad := append(orders, models.Order{LocalID: "9", Date: "ontem"})
	got = ByMonthYear(withBad, "01", "2024")
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestProductOptions(t *testing.T) {
	orders := testOrders()
	orders = append(orders, models.Order{LocalID: "5", Date: "2024-03-01", Product: ""})

	got := ProductOptions(orders)
	assert.Equal(t, []string{"Fone", "Capinha", "Película"}, got)
}
