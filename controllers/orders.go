package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liviabarbosax/dashboard-financeiro/filters"
	"github.com/liviabarbosax/dashboard-financeiro/models"
)

// orderInput é o corpo de criação/edição. valorLiquido e lucro enviados
// pelo cliente são ignorados: sempre recalculados no servidor.
type orderInput struct {
	Date          string  `json:"data"`
	Customer      string  `json:"cliente"`
	OrderNumber   string  `json:"numeroPedido"`
	Product       string  `json:"produto"`
	GrossValue    float64 `json:"valorShopee"`
	FeeRate       float64 `json:"taxaShopee"`
	SupplierCost  float64 `json:"custoFornecedor"`
	Payer         string  `json:"pagador"`
	PaymentDate   string  `json:"dataPagamento"`
	ReceiptDate   string  `json:"dataRecebimento"`
	PaymentMethod string  `json:"metodoPagamento"`
	Status        string  `json:"status"`
}

func (in orderInput) toOrder() models.Order {
	return models.Order{
		Date:          in.Date,
		Customer:      in.Customer,
		OrderNumber:   in.OrderNumber,
		Product:       in.Product,
		GrossValue:    in.GrossValue,
		FeeRate:       in.FeeRate,
		SupplierCost:  in.SupplierCost,
		Payer:         in.Payer,
		PaymentDate:   in.PaymentDate,
		ReceiptDate:   in.ReceiptDate,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
	}
}

// GetOrders lista os pedidos aplicando os filtros da query string.
func (h *Handler) GetOrders(c *gin.Context) {
	var criteria filters.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filtros inválidos"})
		return
	}

	var list []models.Order
	if criteria.IsZero() {
		list = h.recon.ClearFilter()
	} else {
		list = h.recon.ApplyFilter(criteria)
	}

	c.JSON(http.StatusOK, gin.H{
		"pedidos":  list,
		"produtos": h.recon.Views().ProductOptions,
	})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var input orderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	order, saved := h.recon.CreateOrder(c.Request.Context(), input.toOrder())
	if !saved {
		// O pedido existe em memória mas a cópia local falhou (ex.:
		// armazenamento cheio); o cliente precisa saber do aviso.
		c.JSON(http.StatusCreated, gin.H{"pedido": order, "warning": "Erro ao salvar pedido localmente"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pedido": order})
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id := c.Param("id")

	var input orderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	order, found := h.recon.UpdateOrder(c.Request.Context(), id, input.toOrder())
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pedido": order})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if !h.recon.DeleteOrder(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pedido excluído com sucesso"})
}
