package models

import (
	"time"

	"github.com/liviabarbosax/dashboard-financeiro/utils"
)

// Status conhecidos. A enumeração é aberta: qualquer string é aceita,
// estes são apenas os valores que a interface oferece.
const (
	StatusPendente    = "Pendente"
	StatusProcessando = "Processando"
	StatusEntregue    = "Entregue"
	StatusPago        = "Pago"
	StatusFinalizado  = "Finalizado"
	StatusCancelado   = "Cancelado"
)

// Order é um pedido registrado no dashboard. As datas de negócio (data,
// dataPagamento, dataRecebimento) são strings ISO "YYYY-MM-DD", como o
// frontend envia; dataHora é o instante de criação e nunca muda.
type Order struct {
	LocalID       string    `bson:"localId" json:"id"`
	RemoteID      string    `bson:"-" json:"backendId,omitempty"`
	Date          string    `bson:"data" json:"data"`
	Customer      string    `bson:"cliente" json:"cliente"`
	OrderNumber   string    `bson:"numeroPedido" json:"numeroPedido"`
	Product       string    `bson:"produto" json:"produto"`
	GrossValue    float64   `bson:"valorShopee" json:"valorShopee"`
	FeeRate       float64   `bson:"taxaShopee" json:"taxaShopee"`
	NetValue      float64   `bson:"valorLiquido" json:"valorLiquido"`
	SupplierCost  float64   `bson:"custoFornecedor" json:"custoFornecedor"`
	Profit        float64   `bson:"lucro" json:"lucro"`
	Payer         string    `bson:"pagador" json:"pagador"`
	PaymentDate   string    `bson:"dataPagamento" json:"dataPagamento"`
	ReceiptDate   string    `bson:"dataRecebimento" json:"dataRecebimento"`
	PaymentMethod string    `bson:"metodoPagamento" json:"metodoPagamento"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"dataHora" json:"dataHora"`
}

// Recalculate refaz os campos derivados a partir dos campos de entrada.
// Nunca confiamos em valorLiquido/lucro vindos de fora: todo caminho de
// gravação chama Recalculate antes de persistir.
func (o *Order) Recalculate() {
	o.NetValue = utils.NetValue(o.GrossValue, o.FeeRate)
	o.Profit = utils.Profit(o.NetValue, o.SupplierCost)
}
