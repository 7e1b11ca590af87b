package utils

import (
	"math"
	"testing"
)

func TestNetValueAndProfit(t *testing.T) {
	// Pedido de 100 com taxa de 10% e custo 50: líquido 90, lucro 40.
	net := NetValue(100, 10)
	if net != 90 {
		t.Fatalf("NetValue(100, 10) = %v, esperado 90", net)
	}
	profit := Profit(net, 50)
	if profit != 40 {
		t.Fatalf("Profit(90, 50) = %v, esperado 40", profit)
	}
}

func TestNetValueNeverExceedsGross(t *testing.T) {
	cases := []struct{ gross, fee float64 }{
		{100, 5}, {1234.56, 12.5}, {0.01, 99}, {5000, 100},
	}
	for _, tc := range cases {
		net := NetValue(tc.gross, tc.fee)
		if net > tc.gross {
			t.Errorf("NetValue(%v, %v) = %v maior que o bruto", tc.gross, tc.fee, net)
		}
		want := tc.gross * (1 - tc.fee/100)
		if math.Abs(net-want) > 1e-9 {
			t.Errorf("NetValue(%v, %v) = %v, esperado %v", tc.gross, tc.fee, net, want)
		}
	}
}

func TestAbsentInputsDefaultToZero(t *testing.T) {
	// Contrato herdado: entrada zerada ou NaN vale "ausente" e o
	// resultado é 0, nunca erro.
	if got := NetValue(0, 10); got != 0 {
		t.Errorf("NetValue(0, 10) = %v", got)
	}
	if got := NetValue(100, 0); got != 0 {
		t.Errorf("NetValue(100, 0) = %v", got)
	}
	if got := NetValue(math.NaN(), 10); got != 0 {
		t.Errorf("NetValue(NaN, 10) = %v", got)
	}
	if got := Profit(0, 50); got != 0 {
		t.Errorf("Profit(0, 50) = %v", got)
	}
	if got := AverageTicket(500, 0); got != 0 {
		t.Errorf("AverageTicket com zero pedidos = %v", got)
	}
	if got := ProfitMargin(100, 0); got != 0 {
		t.Errorf("ProfitMargin com vendas zero = %v", got)
	}
	if got := FinalBalance(math.NaN(), math.NaN()); got != 0 {
		t.Errorf("FinalBalance(NaN, NaN) = %v", got)
	}
}

func TestFinalBalance(t *testing.T) {
	if got := FinalBalance(1000, 250.5); got != 1250.5 {
		t.Fatalf("FinalBalance = %v", got)
	}
	if got := FinalBalance(0, -300); got != -300 {
		t.Fatalf("FinalBalance com prejuízo = %v", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-42.5, "-R$ 42,50"},
		{0.1, "R$ 0,10"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, esperado %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCurrencyAcceptsFormattedString(t *testing.T) {
	once := FormatCurrency(1234.56)
	twice := FormatCurrency(once)
	if once != twice {
		t.Fatalf("formatar duas vezes divergiu: %q != %q", once, twice)
	}
}

func TestParseCurrencyRoundTrip(t *testing.T) {
	values := []float64{0, 0.01, 1, 99.99, 1234.56, 98765.43, 1000000}
	for _, v := range values {
		got := ParseCurrency(FormatCurrency(v))
		if math.Abs(got-v) > 0.005 {
			t.Errorf("round-trip de %v deu %v", v, got)
		}
	}
}

func TestParseCurrencyInvalidInput(t *testing.T) {
	for _, in := range []string{"", "abc", "R$ ", "--", "R$ um real"} {
		if got := ParseCurrency(in); got != 0 {
			t.Errorf("ParseCurrency(%q) = %v, esperado 0", in, got)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.456); got != 10.46 {
		t.Fatalf("Round2(10.456) = %v", got)
	}
}
