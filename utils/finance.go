package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cálculos financeiros puros. Contrato herdado do dashboard: entradas
// ausentes, zeradas ou NaN valem 0 e nenhuma função retorna erro.

// NetValue é o valor líquido após a taxa do marketplace.
func NetValue(gross, feeRate float64) float64 {
	if !present(gross) || !present(feeRate) {
		return 0
	}
	return gross - (gross * feeRate / 100)
}

// Profit é o lucro: valor líquido menos custo do fornecedor.
func Profit(net, cost float64) float64 {
	if !present(net) || !present(cost) {
		return 0
	}
	return net - cost
}

func AverageTicket(totalSales float64, totalOrders int) float64 {
	if !present(totalSales) || totalOrders == 0 {
		return 0
	}
	return totalSales / float64(totalOrders)
}

// ProfitMargin é o lucro como percentual das vendas.
func ProfitMargin(profit, totalSales float64) float64 {
	if !present(profit) || !present(totalSales) {
		return 0
	}
	return (profit / totalSales) * 100
}

func FinalBalance(initial, netProfit float64) float64 {
	if !present(initial) {
		initial = 0
	}
	if !present(netProfit) {
		netProfit = 0
	}
	return initial + netProfit
}

// Round2 arredonda para duas casas decimais (centavos).
func Round2(value float64) float64 {
	value, _ = strconv.ParseFloat(fmt.Sprintf("%.2f", value), 64)
	return value
}

// FormatCurrency formata um valor como moeda pt-BR ("R$ 1.234,56").
// Aceita float64, int ou uma string já formatada, que é reparseada antes:
// formatar duas vezes dá o mesmo resultado.
func FormatCurrency(value any) string {
	var v float64
	switch t := value.(type) {
	case float64:
		v = t
	case int:
		v = float64(t)
	case string:
		v = ParseCurrency(t)
	default:
		v = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}

// ParseCurrency converte uma string de moeda pt-BR de volta para número.
// Entrada inválida vale 0, nunca erro.
func ParseCurrency(value string) float64 {
	if value == "" {
		return 0
	}
	cleaned := strings.NewReplacer("R$", "", " ", "", " ", "", ".", "").Replace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func present(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}
