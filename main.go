package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/liviabarbosax/dashboard-financeiro/config"
	"github.com/liviabarbosax/dashboard-financeiro/controllers"
	"github.com/liviabarbosax/dashboard-financeiro/filters"
	"github.com/liviabarbosax/dashboard-financeiro/metrics"
	"github.com/liviabarbosax/dashboard-financeiro/middleware"
	"github.com/liviabarbosax/dashboard-financeiro/reconciler"
	"github.com/liviabarbosax/dashboard-financeiro/remote"
	"github.com/liviabarbosax/dashboard-financeiro/routes"
	"github.com/liviabarbosax/dashboard-financeiro/store"
	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

func main() {
	cfg := config.Load()
	utils.LoadSecret()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// O MongoDB é o remoto de sincronização: sem ele o app sobe em modo
	// local e a conectividade fica permanentemente offline.
	if err := config.ConnectDatabase(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		logrus.WithError(err).Warn("MongoDB indisponível, operando em modo local")
	}

	// Redis é o armazenamento local; sem ele cai para memória.
	var persister store.Persister
	if rdb, err := config.ConnectRedis(cfg.RedisURL); err != nil {
		logrus.WithError(err).Warn("Redis indisponível, persistência local em memória")
		persister = store.NewMemoryPersister()
	} else {
		persister = store.NewRedisPersister(rdb)
	}

	st := store.New(persister)
	eng := metrics.NewEngine()
	conn := reconciler.NewConnectivity(config.Client, time.Duration(cfg.PingIntervalMS)*time.Millisecond)
	sy := remote.New(st, config.OrderCollection, config.SettingsCollection, conn.IsOnline)
	recon := reconciler.NewController(st, sy, eng, filters.NewEngine(), conn)

	conn.Start(context.Background())

	// Agendador: flush do estado sujo e relatório diário de meta.
	s := gocron.NewScheduler(time.Local)
	s.Every(cfg.SyncFlushSecs).Seconds().Do(func() {
		recon.FlushSync(context.Background())
	})
	if cfg.SMTPFrom != "" && cfg.ReportEmail != "" {
		s.Every(1).Day().At("08:00").Do(func() {
			recon.SendGoalReport(cfg.SMTPFrom, cfg.ReportEmail)
		})
	}
	s.StartAsync()

	r := gin.Default()

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", func(c *gin.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "https://liviabarbosax.github.io"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	h := controllers.New(recon, st, eng)
	routes.InitializeRoutes(r, h)

	log.Printf("Servidor rodando em http://localhost:%s", cfg.ServerPort)
	r.Run(":" + cfg.ServerPort)
}
