package remote

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/liviabarbosax/dashboard-financeiro/models"
)

// Subscribe registra ouvintes de mudança na coleção remota do usuário
// atual (change streams). A cada notificação o snapshot completo é
// rebuscado e aplicado apenas se diferente do estado em memória, o que
// impede o pingue-pongue entre escrita local e notificação remota.
// Devolve a função de cancelamento da assinatura.
func (s *Sync) Subscribe(onOrdersChanged, onConfigChanged func()) context.CancelFunc {
	userID := s.store.UserID()
	if s.orders == nil || s.settings == nil || userID == "" {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.watchOrders(ctx, userID, onOrdersChanged)
	go s.watchSettings(ctx, userID, onConfigChanged)
	return cancel
}

func (s *Sync) watchOrders(ctx context.Context, userID string, onChanged func()) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"$or": bson.A{
			bson.M{"fullDocument.userId": userID},
			bson.M{"operationType": "delete"},
		},
	}}}}

	stream, err := s.orders.Watch(ctx, pipeline)
	if err != nil {
		// Change streams exigem replica set; sem eles o app segue
		// funcionando com pull no login e push a cada gravação.
		s.log.WithError(err).Warn("assinatura de pedidos indisponível")
		return
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		if s.syncing.Load() {
			continue
		}
		if s.store.UserID() != userID {
			return
		}
		snapshot, ok := s.fetchOrders(ctx, userID)
		if !ok {
			continue
		}
		if s.ApplyOrdersSnapshotIfChanged(snapshot) && onChanged != nil {
			onChanged()
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		s.log.WithError(err).Warn("assinatura de pedidos encerrada")
	}
}

func (s *Sync) watchSettings(ctx context.Context, userID string, onChanged func()) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"documentKey._id": userID,
	}}}}

	stream, err := s.settings.Watch(ctx, pipeline)
	if err != nil {
		s.log.WithError(err).Warn("assinatura de configurações indisponível")
		return
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		if s.syncing.Load() {
			continue
		}
		if s.store.UserID() != userID {
			return
		}
		var doc settingsDoc
		err := s.settings.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
		if err != nil {
			continue
		}
		if s.ApplySettingsSnapshotIfChanged(doc.Settings) && onChanged != nil {
			onChanged()
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		s.log.WithError(err).Warn("assinatura de configurações encerrada")
	}
}

// ApplyOrdersSnapshotIfChanged aplica o snapshot remoto só quando ele
// difere do estado canônico (comparação serializada). Retorna se aplicou.
func (s *Sync) ApplyOrdersSnapshotIfChanged(snapshot []models.Order) bool {
	current, _ := json.Marshal(s.store.Orders())
	incoming, _ := json.Marshal(snapshot)
	if string(current) == string(incoming) {
		return false
	}
	s.store.SetOrders(snapshot)
	s.log.WithField("pedidos", len(snapshot)).Info("snapshot remoto de pedidos aplicado")
	return true
}

func (s *Sync) ApplySettingsSnapshotIfChanged(settings models.Settings) bool {
	current, _ := json.Marshal(s.store.Settings())
	incoming, _ := json.Marshal(settings)
	if string(current) == string(incoming) {
		return false
	}
	s.store.ReplaceSettings(settings)
	s.log.Info("snapshot remoto de configurações aplicado")
	return true
}
