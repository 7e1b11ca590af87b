package filters

import (
	"fmt"
	"sync"
	"time"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

// Criteria são os filtros da tabela de pedidos. Campo vazio não filtra.
// As datas são comparadas lexicalmente, o que funciona porque o formato
// é ISO "YYYY-MM-DD".
type Criteria struct {
	StartDate string `form:"dataInicio" json:"dataInicio"`
	EndDate   string `form:"dataFim" json:"dataFim"`
	Product   string `form:"produto" json:"produto"`
	Status    string `form:"status" json:"status"`
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Engine aplica predicados sobre a coleção canônica sem nunca mutá-la e
// lembra a visão filtrada corrente.
type Engine struct {
	mu       sync.RWMutex
	criteria Criteria
	view     []models.Order
}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply filtra a lista dada e guarda o resultado como visão corrente.
func (e *Engine) Apply(orders []models.Order, c Criteria) []models.Order {
	filtered := Filter(orders, c)

	e.mu.Lock()
	e.criteria = c
	e.view = filtered
	e.mu.Unlock()

	out := make([]models.Order, len(filtered))
	copy(out, filtered)
	return out
}

// Reapply refaz a visão corrente com os critérios já ativos. Chamado
// quando a coleção canônica muda.
func (e *Engine) Reapply(orders []models.Order) []models.Order {
	e.mu.RLock()
	c := e.criteria
	e.mu.RUnlock()
	return e.Apply(orders, c)
}

// Clear remove os filtros: a visão volta a ser a coleção completa.
func (e *Engine) Clear(orders []models.Order) []models.Order {
	return e.Apply(orders, Criteria{})
}

// View devolve a visão filtrada corrente.
func (e *Engine) View() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Order, len(e.view))
	copy(out, e.view)
	return out
}

func (e *Engine) Criteria() Criteria {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.criteria
}

// Filter é o predicado puro, sem estado.
func Filter(orders []models.Order, c Criteria) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if c.StartDate != "" && o.Date < c.StartDate {
			continue
		}
		if c.EndDate != "" && o.Date > c.EndDate {
			continue
		}
		if c.Product != "" && o.Product != c.Product {
			continue
		}
		if c.Status != "" && o.Status != c.Status {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ByMonthYear filtra pela competência do resumo. Mês é "01".."12", ano
// "2024"; vazio não restringe. Pedido sem data parseável fica de fora
// quando qualquer um dos dois é informado.
func ByMonthYear(orders []models.Order, month, year string) []models.Order {
	if month == "" && year == "" {
		out := make([]models.Order, len(orders))
		copy(out, orders)
		return out
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		t, ok := parseDate(o.Date)
		if !ok {
			continue
		}
		m := fmt.Sprintf("%02d", int(t.Month()))
		y := fmt.Sprintf("%d", t.Year())
		if month != "" && m != month {
			continue
		}
		if year != "" && y != year {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ProductOptions lista os produtos distintos não vazios, na ordem em que
// aparecem, para preencher o seletor de filtro.
func ProductOptions(orders []models.Order) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range orders {
		if o.Product == "" || seen[o.Product] {
			continue
		}
		seen[o.Product] = true
		out = append(out, o.Product)
	}
	return out
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
