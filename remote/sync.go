package remote

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/liviabarbosax/dashboard-financeiro/models"
	"github.com/liviabarbosax/dashboard-financeiro/store"
)

// Result distingue uma sincronização executada de uma pulada. Pular não é
// erro: acontece quando há outra em andamento ou quando as precondições
// (online, configurado, autenticado) não valem.
type Result int

const (
	ResultOK Result = iota
	ResultSkipped
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// orderDoc é o formato do pedido na coleção remota: o _id é atribuído
// pelo MongoDB e vira o remoteId do registro.
type orderDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"userId"`
	Order  models.Order       `bson:"pedido"`
}

type settingsDoc struct {
	UserID   string          `bson:"_id"`
	Settings models.Settings `bson:"settings"`
}

// Sync fala com a coleção remota por usuário. Toda falha remota é
// absorvida e logada; indisponibilidade nunca derruba o estado local.
type Sync struct {
	store    *store.Store
	orders   *mongo.Collection
	settings *mongo.Collection
	isOnline func() bool
	syncing  atomic.Bool
	log      *logrus.Entry
}

// New monta o sincronizador. orders/settings podem ser nil quando o
// remoto está desabilitado: todas as operações viram no-op.
func New(st *store.Store, orders, settings *mongo.Collection, isOnline func() bool) *Sync {
	if isOnline == nil {
		isOnline = func() bool { return false }
	}
	return &Sync{
		store:    st,
		orders:   orders,
		settings: settings,
		isOnline: isOnline,
		log:      logrus.WithField("component", "remote"),
	}
}

// ready confere as precondições de qualquer operação remota.
func (s *Sync) ready(userID string) bool {
	return s.orders != nil && s.settings != nil && userID != "" && s.isOnline()
}

// SyncInProgress expõe o estado da trava de sincronização.
func (s *Sync) SyncInProgress() bool {
	return s.syncing.Load()
}

// PullAll busca a coleção remota inteira e as configurações do usuário e,
// em caso de sucesso, substitui o estado canônico (remoto vence no load).
func (s *Sync) PullAll(ctx context.Context) Result {
	userID := s.store.UserID()
	if !s.ready(userID) {
		return ResultSkipped
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return ResultSkipped
	}
	defer s.syncing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pulled, ok := s.fetchOrders(ctx, userID)
	if !ok {
		return ResultFailed
	}

	var settings *models.Settings
	var doc settingsDoc
	err := s.settings.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == nil {
		settings = &doc.Settings
	} else if err != mongo.ErrNoDocuments {
		s.log.WithError(err).Error("erro ao buscar configurações remotas")
		return ResultFailed
	}

	// Se a sessão trocou de usuário enquanto a busca estava em voo, a
	// resposta é descartada para não contaminar o novo namespace.
	if s.store.UserID() != userID {
		s.log.Warn("pull concluído para sessão antiga, descartando")
		return ResultSkipped
	}

	s.store.SetOrders(pulled)
	if settings != nil {
		s.store.ReplaceSettings(*settings)
	}
	s.log.WithField("pedidos", len(pulled)).Info("dados sincronizados do remoto")
	return ResultOK
}

// PushAll substitui a coleção remota pelo estado local: apaga tudo e
// reinsere, depois grava as configurações. Estratégia de substituição
// completa, sem diff.
func (s *Sync) PushAll(ctx context.Context) Result {
	userID := s.store.UserID()
	if !s.ready(userID) {
		return ResultSkipped
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return ResultSkipped
	}
	defer s.syncing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	orders := s.store.Orders()

	if _, err := s.orders.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		s.log.WithError(err).Error("erro ao limpar coleção remota")
		return ResultFailed
	}

	if len(orders) > 0 {
		docs := make([]interface{}, 0, len(orders))
		for _, o := range orders {
			docs = append(docs, orderDoc{UserID: userID, Order: o})
		}
		res, err := s.orders.InsertMany(ctx, docs)
		if err != nil {
			s.log.WithError(err).Error("erro ao inserir pedidos remotos")
			return ResultFailed
		}
		if s.store.UserID() == userID {
			for i, id := range res.InsertedIDs {
				if oid, ok := id.(primitive.ObjectID); ok && i < len(orders) {
					s.store.SetRemoteID(orders[i].LocalID, oid.Hex())
				}
			}
		}
	}

	opts := options.Replace().SetUpsert(true)
	doc := settingsDoc{UserID: userID, Settings: s.store.Settings()}
	if _, err := s.settings.ReplaceOne(ctx, bson.M{"_id": userID}, doc, opts); err != nil {
		s.log.WithError(err).Error("erro ao gravar configurações remotas")
		return ResultFailed
	}

	s.log.WithField("pedidos", len(orders)).Info("dados enviados ao remoto (substituição completa)")
	return ResultOK
}

// CreateOne insere um pedido e devolve o remoteId atribuído, ou "" se a
// operação não pôde ser feita.
func (s *Sync) CreateOne(ctx context.Context, order models.Order) string {
	userID := s.store.UserID()
	if !s.ready(userID) {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.orders.InsertOne(ctx, orderDoc{UserID: userID, Order: order})
	if err != nil {
		s.log.WithError(err).Warn("erro ao criar pedido remoto")
		return ""
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return ""
	}
	return oid.Hex()
}

func (s *Sync) UpdateOne(ctx context.Context, remoteID string, order models.Order) bool {
	userID := s.store.UserID()
	if !s.ready(userID) {
		return false
	}
	oid, err := primitive.ObjectIDFromHex(remoteID)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := orderDoc{ID: oid, UserID: userID, Order: order}
	_, err = s.orders.ReplaceOne(ctx, bson.M{"_id": oid, "userId": userID}, doc)
	if err != nil {
		s.log.WithError(err).Warn("erro ao atualizar pedido remoto")
		return false
	}
	return true
}

func (s *Sync) DeleteOne(ctx context.Context, remoteID string) bool {
	userID := s.store.UserID()
	if !s.ready(userID) {
		return false
	}
	oid, err := primitive.ObjectIDFromHex(remoteID)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.orders.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID}); err != nil {
		s.log.WithError(err).Warn("erro ao excluir pedido remoto")
		return false
	}
	return true
}

func (s *Sync) fetchOrders(ctx context.Context, userID string) ([]models.Order, bool) {
	cursor, err := s.orders.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		s.log.WithError(err).Error("erro ao buscar pedidos remotos")
		return nil, false
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		s.log.WithError(err).Error("erro ao decodificar pedidos remotos")
		return nil, false
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o := d.Order
		o.RemoteID = d.ID.Hex()
		if o.LocalID == "" {
			o.LocalID = o.RemoteID
		}
		orders = append(orders, o)
	}
	return orders, true
}
