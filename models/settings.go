package models

// DefaultProfitGoal é a meta de lucro mensal usada enquanto o usuário não
// configura outra.
const DefaultProfitGoal = 10000

// Settings são as configurações por usuário do dashboard. Não há
// histórico: toda atualização sobrescreve o documento inteiro.
type Settings struct {
	InitialBalance float64 `bson:"saldoInicial" json:"saldoInicial"`
	ReferenceMonth string  `bson:"mesReferencia" json:"mesReferencia"`
	ProfitGoal     float64 `bson:"metaLucro" json:"metaLucro"`
}

// SettingsPatch carrega apenas os campos presentes numa atualização
// parcial; campos nil mantêm o valor atual (merge raso).
type SettingsPatch struct {
	InitialBalance *float64 `json:"saldoInicial"`
	ReferenceMonth *string  `json:"mesReferencia"`
	ProfitGoal     *float64 `json:"metaLucro"`
}

func DefaultSettings() Settings {
	return Settings{ProfitGoal: DefaultProfitGoal}
}
