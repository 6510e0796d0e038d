package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shayar/CommissionApp/pkg/money"
)

func TestFormatter_Amount(t *testing.T) {
	f := money.Default()
	assert.Equal(t, "$200.00", f.Amount(decimal.NewFromInt(200)))
	assert.Equal(t, "$7.50", f.Amount(decimal.RequireFromString("7.5")))
	assert.Equal(t, "$1,234.57", f.Amount(decimal.RequireFromString("1234.567")))
}

func TestFormatter_Percent(t *testing.T) {
	f := money.Default()
	rate := decimal.RequireFromString("0.05")
	assert.Equal(t, "5%", f.Percent(&rate))
	rate = decimal.RequireFromString("0.125")
	assert.Equal(t, "12.5%", f.Percent(&rate))
	assert.Equal(t, "N/A", f.Percent(nil))
}

func TestNewFormatter_LocaleInvalidoUsaEnUS(t *testing.T) {
	f := money.NewFormatter("no-es-un-locale!!", "")
	assert.Equal(t, "$10.00", f.Amount(decimal.NewFromInt(10)))
}
