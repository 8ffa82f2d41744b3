package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		want    Money
		wantErr bool
	}{
		{"whole amount", 15, 1500, false},
		{"two decimals", 12.50, 1250, false},
		{"rounds half up", 10.005, 1001, false},
		{"one cent", 0.01, 1, false},
		{"zero", 0, 0, true},
		{"negative", -5, 0, true},
		{"rounds to zero", 0.004, 0, true},
		{"nan", math.NaN(), 0, true},
		{"positive infinity", math.Inf(1), 0, true},
		{"negative infinity", math.Inf(-1), 0, true},
		{"too large", 1e14, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMoney(tt.amount)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "12.50", Money(1250).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-3.10", Money(-310).String())
	assert.Equal(t, int64(1250), Money(1250).Cents())
	assert.InDelta(t, 12.5, Money(1250).Float64(), 1e-9)
}

func TestMoney_JSON(t *testing.T) {
	type payload struct {
		Price *Money `json:"price,omitempty"`
	}

	data, err := json.Marshal(payload{Price: MoneyPtr(1500)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":15.00}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5}`), &p))
	require.NotNil(t, p.Price)
	assert.Equal(t, Money(1250), *p.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"price":"abc"}`), &p))
}
