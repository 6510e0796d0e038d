// Package commission contiene las reglas puras de comisión (servicio de dominio).
package commission

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// RateScale decimales que admite una tasa (columna NUMERIC(7,6)).
const RateScale = 6

// Calculate devuelve la comisión de una venta: Comisión = Monto × Tasa.
// Aritmética decimal exacta; el redondeo queda a cargo de la presentación.
func Calculate(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// ValidRate indica si la tasa está en (0,1] y tiene como máximo RateScale decimales.
func ValidRate(rate decimal.Decimal) bool {
	return rate.GreaterThan(decimal.Zero) && rate.LessThanOrEqual(one) &&
		rate.Equal(rate.Truncate(RateScale))
}

// ValidAmount indica si el monto es positivo y tiene como máximo dos decimales.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero) && amount.Equal(amount.Truncate(2))
}
