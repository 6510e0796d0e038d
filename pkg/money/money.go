// Package money formatea montos y tasas para bitácora, CSV y PDF usando golang.org/x/text.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formatea montos con dos decimales y tasas como porcentaje según el locale.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// NewFormatter construye el formateador. Un locale inválido cae en en-US.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	if symbol == "" {
		symbol = "$"
	}
	return &Formatter{p: message.NewPrinter(tag), symbol: symbol}
}

// Default formateador en-US con "$", el usado por la bitácora.
func Default() *Formatter {
	return NewFormatter("en-US", "$")
}

// Amount devuelve el monto con símbolo y dos decimales, ej: "$1,234.50".
func (f *Formatter) Amount(v decimal.Decimal) string {
	return f.symbol + f.Number(v)
}

// Number devuelve el monto sin símbolo con dos decimales, ej: "1,234.50".
func (f *Formatter) Number(v decimal.Decimal) string {
	x, _ := v.Round(2).Float64()
	return f.p.Sprint(number.Decimal(x, number.Scale(2)))
}

// Percent devuelve la tasa como porcentaje, ej: 0.05 → "5%", 0.125 → "12.5%". nil → "N/A".
func (f *Formatter) Percent(rate *decimal.Decimal) string {
	if rate == nil {
		return "N/A"
	}
	x, _ := rate.Float64()
	return f.p.Sprint(number.Percent(x, number.MaxFractionDigits(2)))
}
