package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

// DefaultNamespace é usado enquanto nenhum usuário está autenticado.
const DefaultNamespace = "default_user"

const themeKey = "theme"

// Store é a coleção canônica de pedidos e configurações da sessão.
// A memória é a fonte de verdade para todas as visões derivadas; o Redis
// guarda uma cópia local e o MongoDB é só alvo de sincronização.
type Store struct {
	mu        sync.RWMutex
	userID    string
	orders    []models.Order
	settings  models.Settings
	persister Persister
	log       *logrus.Entry
}

func New(p Persister) *Store {
	return &Store{
		settings:  models.DefaultSettings(),
		persister: p,
		log:       logrus.WithField("component", "store"),
	}
}

// SetUser define o usuário dono do namespace de persistência.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Store) namespace() string {
	if s.userID == "" {
		return DefaultNamespace
	}
	return s.userID
}

func (s *Store) ordersKey() string { return "orders_" + s.namespace() }
func (s *Store) configKey() string { return "config_" + s.namespace() }

// Orders devolve uma cópia da coleção canônica.
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetOrders substitui a coleção inteira e persiste.
func (s *Store) SetOrders(list []models.Order) bool {
	s.mu.Lock()
	s.orders = make([]models.Order, len(list))
	copy(s.orders, list)
	s.mu.Unlock()
	return s.Persist()
}

// SetConfig aplica um merge raso: só os campos presentes no patch mudam.
func (s *Store) SetConfig(patch models.SettingsPatch) bool {
	s.mu.Lock()
	if patch.InitialBalance != nil {
		s.settings.InitialBalance = *patch.InitialBalance
	}
	if patch.ReferenceMonth != nil {
		s.settings.ReferenceMonth = *patch.ReferenceMonth
	}
	if patch.ProfitGoal != nil {
		s.settings.ProfitGoal = *patch.ProfitGoal
	}
	s.mu.Unlock()
	return s.Persist()
}

// ReplaceSettings sobrescreve as configurações inteiras (usado pelo pull
// remoto, que traz o documento completo).
func (s *Store) ReplaceSettings(settings models.Settings) bool {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return s.Persist()
}

// UpsertOrder substitui o pedido de mesmo localId ou acrescenta ao final.
func (s *Store) UpsertOrder(order models.Order) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.orders {
		if s.orders[i].LocalID == order.LocalID {
			s.orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		s.orders = append(s.orders, order)
	}
	s.mu.Unlock()
	return s.Persist()
}

// DeleteOrder remove exatamente um pedido pelo localId (ou remoteId).
func (s *Store) DeleteOrder(id string) (models.Order, bool) {
	s.mu.Lock()
	idx := -1
	for i := range s.orders {
		if s.orders[i].LocalID == id || (s.orders[i].RemoteID != "" && s.orders[i].RemoteID == id) {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return models.Order{}, false
	}
	removed := s.orders[idx]
	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	s.mu.Unlock()
	s.Persist()
	return removed, true
}

// FindOrder localiza pelo localId ou remoteId.
func (s *Store) FindOrder(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].LocalID == id || (s.orders[i].RemoteID != "" && s.orders[i].RemoteID == id) {
			return s.orders[i], true
		}
	}
	return models.Order{}, false
}

// SetRemoteID grava o id remoto atribuído a um pedido recém-criado.
func (s *Store) SetRemoteID(localID, remoteID string) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].LocalID == localID {
			s.orders[i].RemoteID = remoteID
			break
		}
	}
	s.mu.Unlock()
	s.Persist()
}

// Persist grava a coleção e as configurações no namespace atual. Falha de
// persistência local nunca vira erro: é logada e reportada como false.
func (s *Store) Persist() bool {
	s.mu.RLock()
	ordersData, err := json.Marshal(s.orders)
	if err != nil {
		s.mu.RUnlock()
		s.log.WithError(err).Error("erro ao serializar pedidos")
		return false
	}
	configData, err := json.Marshal(s.settings)
	ordersKey, configKey := s.ordersKey(), s.configKey()
	s.mu.RUnlock()
	if err != nil {
		s.log.WithError(err).Error("erro ao serializar configurações")
		return false
	}

	ctx := context.Background()
	if err := s.persister.Set(ctx, ordersKey, ordersData); err != nil {
		s.log.WithError(err).Warn("erro ao salvar pedidos localmente")
		return false
	}
	if err := s.persister.Set(ctx, configKey, configData); err != nil {
		s.log.WithError(err).Warn("erro ao salvar configurações localmente")
		return false
	}
	return true
}

// Restore carrega o estado do namespace atual. Chave ausente cai nos
// padrões (coleção vazia, configuração default); o tema é global e é
// carregado à parte.
func (s *Store) Restore() bool {
	ctx := context.Background()

	s.mu.Lock()
	ordersKey, configKey := s.ordersKey(), s.configKey()
	s.orders = nil
	s.settings = models.DefaultSettings()
	s.mu.Unlock()

	ordersData, found, err := s.persister.Get(ctx, ordersKey)
	if err != nil {
		s.log.WithError(err).Warn("erro ao carregar pedidos locais")
		return false
	}
	if found {
		var orders []models.Order
		if err := json.Unmarshal(ordersData, &orders); err != nil {
			s.log.WithError(err).Warn("pedidos locais corrompidos, ignorando")
		} else {
			s.mu.Lock()
			s.orders = orders
			s.mu.Unlock()
		}
	}

	configData, found, err := s.persister.Get(ctx, configKey)
	if err != nil {
		s.log.WithError(err).Warn("erro ao carregar configurações locais")
		return false
	}
	if found {
		var settings models.Settings
		if err := json.Unmarshal(configData, &settings); err == nil {
			s.mu.Lock()
			s.settings = settings
			s.mu.Unlock()
		}
	}
	return true
}

// Theme lê a preferência global de tema ("light" ou "dark").
func (s *Store) Theme() string {
	data, found, err := s.persister.Get(context.Background(), themeKey)
	if err != nil || !found {
		return "dark"
	}
	theme := string(data)
	if theme != "light" && theme != "dark" {
		return "dark"
	}
	return theme
}

func (s *Store) SetTheme(theme string) bool {
	if theme != "light" && theme != "dark" {
		return false
	}
	if err := s.persister.Set(context.Background(), themeKey, []byte(theme)); err != nil {
		s.log.WithError(err).Warn("erro ao salvar tema")
		return false
	}
	return true
}

// Reset zera o estado em memória (logout). A cópia local persistida não é
// apagada: o próximo login do mesmo usuário a restaura.
func (s *Store) Reset() {
	s.mu.Lock()
	s.userID = ""
	s.orders = nil
	s.settings = models.DefaultSettings()
	s.mu.Unlock()
}
