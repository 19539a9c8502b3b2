package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicer/pkg/money"
)

func TestNew(t *testing.T) {
	f, err := money.New("eur", "en")
	require.NoError(t, err)
	assert.Equal(t, "EUR", f.Code())
	assert.Equal(t, "€", f.Symbol())

	f, err = money.New("SEK", "en")
	require.NoError(t, err)
	assert.Equal(t, "SEK", f.Symbol())
}

func TestNew_Invalido(t *testing.T) {
	_, err := money.New("EURO", "en")
	assert.Error(t, err)
	_, err = money.New("EUR", "not a tag!")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "0.00", money.Fixed(0))
	assert.Equal(t, "36.75", money.Fixed(36.75))
	assert.Equal(t, "90.00", money.Fixed(90))
	assert.Equal(t, "6.67", money.Fixed(6.666666))
}

func TestQty(t *testing.T) {
	assert.Equal(t, "1", money.Qty(1))
	assert.Equal(t, "1.5", money.Qty(1.5))
	assert.Equal(t, "0.25", money.Qty(0.25))
}

func TestAmount(t *testing.T) {
	f := money.MustNew("EUR", "en")
	assert.Equal(t, "€ 211.75", f.Amount(211.75))
	assert.Equal(t, "€ 100.00", f.Amount(100))
}

func TestDisplay(t *testing.T) {
	f := money.MustNew("USD", "en")
	assert.Equal(t, "$ 90.00", f.Display(90))
}
