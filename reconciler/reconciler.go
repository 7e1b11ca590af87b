package reconciler

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/liviabarbosax/dashboard-financeiro/filters"
	"github.com/liviabarbosax/dashboard-financeiro/metrics"
	"github.com/liviabarbosax/dashboard-financeiro/models"
	"github.com/liviabarbosax/dashboard-financeiro/remote"
	"github.com/liviabarbosax/dashboard-financeiro/store"
)

// Phase é o estado da sessão.
type Phase string

const (
	PhaseLoggedOut Phase = "logged_out"
	PhaseLoggingIn Phase = "logging_in"
	PhaseLoading   Phase = "loading"
	PhaseSynced    Phase = "synced"
	PhaseLocalOnly Phase = "local_only"
	PhaseOffline   Phase = "offline"
)

// Views é o snapshot de todas as visões derivadas, recomputado inteiro a
// cada mutação da coleção ou das configurações.
type Views struct {
	KPIs           metrics.KPIs                `json:"kpis"`
	Goal           metrics.GoalPanel           `json:"meta"`
	MonthlyProfit  map[string]float64          `json:"lucroPorMes"`
	MonthlySales   map[string]float64          `json:"vendasPorMes"`
	TopProducts    []metrics.ProductStat       `json:"topProdutos"`
	PaymentMethods []metrics.PaymentMethodStat `json:"metodosPagamento"`
	CostVsProfit   metrics.CostVsProfit        `json:"custoLucro"`
	Summary        metrics.Summary             `json:"resumo"`
	Closing        metrics.Closing             `json:"fechamento"`
	RecentActivity []metrics.Activity          `json:"atividadeRecente"`
	Filtered       []models.Order              `json:"pedidosFiltrados"`
	ProductOptions []string                    `json:"produtos"`
}

// Controller orquestra o fluxo carregar-no-login, a propagação de
// mudanças entre o estado local e o remoto e a recomputação das visões.
type Controller struct {
	store        *store.Store
	sync         *remote.Sync
	engine       *metrics.Engine
	filters      *filters.Engine
	connectivity *Connectivity

	mu          sync.RWMutex
	phase       Phase
	views       Views
	unsubscribe context.CancelFunc

	dirty atomic.Bool
	log   *logrus.Entry
}

func NewController(st *store.Store, sy *remote.Sync, eng *metrics.Engine, fl *filters.Engine, conn *Connectivity) *Controller {
	c := &Controller{
		store:        st,
		sync:         sy,
		engine:       eng,
		filters:      fl,
		connectivity: conn,
		phase:        PhaseLoggedOut,
		log:          logrus.WithField("component", "reconciler"),
	}
	if conn != nil {
		conn.OnOnline = c.onOnline
		conn.OnOffline = c.onOffline
	}
	return c
}

func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// LoadForSession executa o carregamento de login: restaura o estado local
// do namespace, deixa o remoto vencer com um pull (quando online) e então
// estabelece a assinatura de mudanças ao vivo.
func (c *Controller) LoadForSession(ctx context.Context, userID string) {
	c.setPhase(PhaseLoggingIn)
	c.store.SetUser(userID)
	c.setPhase(PhaseLoading)

	c.store.Restore()

	switch c.sync.PullAll(ctx) {
	case remote.ResultOK:
		c.setPhase(PhaseSynced)
	case remote.ResultSkipped:
		if c.connectivity != nil && !c.connectivity.IsOnline() {
			c.setPhase(PhaseOffline)
		} else {
			c.setPhase(PhaseLocalOnly)
		}
	default:
		c.setPhase(PhaseLocalOnly)
	}

	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = c.sync.Subscribe(c.RefreshDerivedViews, c.RefreshDerivedViews)
	c.mu.Unlock()

	c.RefreshDerivedViews()
	c.log.WithField("user", userID).WithField("phase", c.Phase()).Info("sessão carregada")
}

// Logout cancela a assinatura e zera o estado. Um sync em voo termina
// sozinho e tem o resultado descartado pela checagem de usuário.
func (c *Controller) Logout() {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.mu.Unlock()

	c.store.Reset()
	c.dirty.Store(false)
	c.setPhase(PhaseLoggedOut)
	c.RefreshDerivedViews()
}

// Save persiste localmente e agenda um push de melhor esforço. A falha do
// push não desfaz o save: a flag dirty fica armada para o flush periódico.
func (c *Controller) Save() bool {
	saved := c.store.Persist()
	if !saved {
		return false
	}
	c.dirty.Store(true)
	go c.FlushSync(context.Background())
	return true
}

// FlushSync tenta enviar o estado sujo ao remoto. Chamado após cada save,
// pelo job periódico e na transição para online.
func (c *Controller) FlushSync(ctx context.Context) {
	if !c.dirty.Load() {
		return
	}
	if c.sync.PushAll(ctx) == remote.ResultOK {
		c.dirty.Store(false)
		if c.Phase() == PhaseLocalOnly || c.Phase() == PhaseOffline {
			c.setPhase(PhaseSynced)
		}
	}
}

// ForceSync é a sincronização manual disparada pelo usuário.
func (c *Controller) ForceSync(ctx context.Context) remote.Result {
	res := c.sync.PushAll(ctx)
	if res == remote.ResultOK {
		c.dirty.Store(false)
		c.setPhase(PhaseSynced)
	}
	return res
}

// CreateOrder registra um pedido novo: atribui o localId, recalcula os
// derivados, grava e tenta o create remoto de registro único.
func (c *Controller) CreateOrder(ctx context.Context, order models.Order) (models.Order, bool) {
	if order.LocalID == "" {
		order.LocalID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.Recalculate()

	if remoteID := c.sync.CreateOne(ctx, order); remoteID != "" {
		order.RemoteID = remoteID
	}

	if !c.store.UpsertOrder(order) {
		c.log.Warn("pedido criado em memória mas não persistido localmente")
	}
	ok := c.Save()
	c.RefreshDerivedViews()
	return order, ok
}

// UpdateOrder substitui o registro inteiro (sem patch parcial em
// memória), preservando localId e dataHora originais.
func (c *Controller) UpdateOrder(ctx context.Context, id string, order models.Order) (models.Order, bool) {
	existing, found := c.store.FindOrder(id)
	if !found {
		return models.Order{}, false
	}
	order.LocalID = existing.LocalID
	order.RemoteID = existing.RemoteID
	order.CreatedAt = existing.CreatedAt
	order.Recalculate()

	if order.RemoteID != "" {
		c.sync.UpdateOne(ctx, order.RemoteID, order)
	}

	c.store.UpsertOrder(order)
	c.Save()
	c.RefreshDerivedViews()
	return order, true
}

// DeleteOrder remove exatamente um registro e, em melhor esforço, o
// documento remoto correspondente.
func (c *Controller) DeleteOrder(ctx context.Context, id string) bool {
	removed, found := c.store.DeleteOrder(id)
	if !found {
		return false
	}
	if removed.RemoteID != "" {
		c.sync.DeleteOne(ctx, removed.RemoteID)
	}
	c.Save()
	c.RefreshDerivedViews()
	return true
}

// UpdateConfig aplica um merge raso nas configurações e sincroniza.
func (c *Controller) UpdateConfig(patch models.SettingsPatch) bool {
	c.store.SetConfig(patch)
	ok := c.Save()
	c.RefreshDerivedViews()
	return ok
}

// RefreshDerivedViews recomputa todas as saídas do MetricsEngine e
// reaplica o filtro ativo. Sem mutação no meio, chamadas repetidas
// produzem o mesmo snapshot.
func (c *Controller) RefreshDerivedViews() {
	orders := c.store.Orders()
	settings := c.store.Settings()

	views := Views{
		KPIs:           c.engine.KPIs(orders, settings),
		Goal:           c.engine.Goal(orders, settings),
		MonthlyProfit:  c.engine.MonthlyProfit(orders),
		MonthlySales:   c.engine.MonthlySales(orders),
		TopProducts:    c.engine.TopProducts(orders, 5),
		PaymentMethods: c.engine.PaymentMethods(orders),
		CostVsProfit:   c.engine.CostVsProfit(orders),
		Summary:        c.engine.Summary(orders),
		Closing:        c.engine.Closing(orders, settings),
		RecentActivity: c.engine.RecentActivity(orders, 5),
		Filtered:       c.filters.Reapply(orders),
		ProductOptions: filters.ProductOptions(orders),
	}

	c.mu.Lock()
	c.views = views
	c.mu.Unlock()
}

// Views devolve o snapshot derivado corrente.
func (c *Controller) Views() Views {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.views
}

// ApplyFilter aplica critérios novos e atualiza a visão filtrada.
func (c *Controller) ApplyFilter(criteria filters.Criteria) []models.Order {
	filtered := c.filters.Apply(c.store.Orders(), criteria)
	c.mu.Lock()
	c.views.Filtered = filtered
	c.mu.Unlock()
	return filtered
}

// ClearFilter volta a visão para a coleção completa.
func (c *Controller) ClearFilter() []models.Order {
	return c.ApplyFilter(filters.Criteria{})
}

// SyncStatus descreve o estado de conectividade para a interface.
func (c *Controller) SyncStatus() string {
	online := c.connectivity != nil && c.connectivity.IsOnline()
	authenticated := c.store.UserID() != ""
	switch {
	case online && authenticated:
		return "Sincronizado"
	case online:
		return "Online (Local)"
	default:
		return "Offline"
	}
}

func (c *Controller) Dirty() bool {
	return c.dirty.Load()
}

func (c *Controller) SyncInProgress() bool {
	return c.sync.SyncInProgress()
}

func (c *Controller) onOnline() {
	if c.store.UserID() == "" {
		return
	}
	c.dirty.Store(true)
	c.FlushSync(context.Background())
}

func (c *Controller) onOffline() {
	if c.Phase() == PhaseSynced || c.Phase() == PhaseLocalOnly {
		c.setPhase(PhaseOffline)
	}
}
