package reconciler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Connectivity observa a alcançabilidade do MongoDB com pings periódicos
// e dispara callbacks nas transições online/offline. É o substituto do
// evento online/offline do navegador.
type Connectivity struct {
	client    *mongo.Client
	interval  time.Duration
	online    atomic.Bool
	OnOnline  func()
	OnOffline func()
	log       *logrus.Entry
}

func NewConnectivity(client *mongo.Client, interval time.Duration) *Connectivity {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Connectivity{
		client:   client,
		interval: interval,
		log:      logrus.WithField("component", "connectivity"),
	}
}

func (c *Connectivity) IsOnline() bool {
	return c.online.Load()
}

// Start faz um ping imediato e segue pingando no intervalo configurado
// até o contexto ser cancelado.
func (c *Connectivity) Start(ctx context.Context) {
	if c.client == nil {
		return
	}
	c.check(ctx)
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.check(ctx)
			}
		}
	}()
}

func (c *Connectivity) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.client.Ping(pingCtx, nil)
	wasOnline := c.online.Load()
	isOnline := err == nil

	if isOnline == wasOnline {
		return
	}
	c.online.Store(isOnline)

	if isOnline {
		c.log.Info("conectado, sincronizando dados")
		if c.OnOnline != nil {
			c.OnOnline()
		}
	} else {
		c.log.WithError(err).Warn("modo offline ativado")
		if c.OnOffline != nil {
			c.OnOffline()
		}
	}
}
