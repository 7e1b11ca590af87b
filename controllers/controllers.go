package controllers

import (
	"github.com/liviabarbosax/dashboard-financeiro/metrics"
	"github.com/liviabarbosax/dashboard-financeiro/reconciler"
	"github.com/liviabarbosax/dashboard-financeiro/store"
)

// Handler agrupa as dependências dos endpoints. O estado canônico e o
// reconciliador são injetados na construção, nunca acessados como
// singleton de processo.
type Handler struct {
	recon  *reconciler.Controller
	store  *store.Store
	engine *metrics.Engine
}

func New(recon *reconciler.Controller, st *store.Store, eng *metrics.Engine) *Handler {
	return &Handler{recon: recon, store: st, engine: eng}
}
