package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomDataDefaults(t *testing.T) {
	t.Run("loan starts with default principal and empty installments", func(t *testing.T) {
		data, ok := NewCustomData(StrategySTL).(*STLData)
		require.True(t, ok)
		assert.Equal(t, LoanAmount, data.MontoPrestamo)
		assert.Equal(t, RiskLow, data.Riesgo)
		assert.Len(t, data.Abonos, NumPayments)
	})

	t.Run("legal support starts every procedure as not started", func(t *testing.T) {
		data, ok := NewCustomData(StrategyTLS).(*TLSData)
		require.True(t, ok)
		require.Len(t, data.ProcedureStatus, len(LegalProcedures))
		for _, p := range LegalProcedures {
			assert.Equal(t, ProcedureNotStarted, data.ProcedureStatus[p].Status)
		}
	})

	t.Run("catalog strategies zero their fields by type", func(t *testing.T) {
		data, ok := NewCustomData("DI").(*GenericData)
		require.True(t, ok)
		assert.Equal(t, "", data.Values["fiName"])
		assert.Equal(t, 0.0, data.Values["debtAmount"])
	})

	t.Run("unknown strategies get an empty generic payload", func(t *testing.T) {
		data, ok := NewCustomData("XYZ").(*GenericData)
		require.True(t, ok)
		assert.Empty(t, data.Values)
	})
}

func TestParseAbonoKey(t *testing.T) {
	tests := []struct {
		key   string
		idx   int
		field string
		ok    bool
	}{
		{key: "abono_1_cantidad", idx: 0, field: "cantidad", ok: true},
		{key: "abono_6_formaDePago", idx: 5, field: "formaDePago", ok: true},
		{key: "abono_x_cantidad", ok: false},
		{key: "abono_2", ok: false},
		{key: "referencia", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			idx, field, ok := ParseAbonoKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.idx, idx)
				assert.Equal(t, tt.field, field)
			}
		})
	}
}

func TestParseProcedureKey(t *testing.T) {
	proc, field, ok := ParseProcedureKey("título_de_PROPIEDAD_status")
	require.True(t, ok)
	assert.Equal(t, "Título de propiedad", proc)
	assert.Equal(t, "status", field)

	proc, field, ok = ParseProcedureKey("Permiso_de_construcción_subStatus")
	require.True(t, ok)
	assert.Equal(t, "Permiso de construcción", proc)
	assert.Equal(t, "subStatus", field)

	_, _, ok = ParseProcedureKey("contactCount")
	assert.False(t, ok)
}

func TestSTLSetIgnoresMissingInstallments(t *testing.T) {
	data := &STLData{Abonos: make([]Abono, 2)}

	assert.True(t, data.Set("abono_2_cantidad", "1500.5"))
	assert.False(t, data.Set("abono_3_cantidad", "10"))
	assert.Equal(t, 1500.5, data.Abonos[1].Cantidad)
	assert.Len(t, data.Abonos, 2)
}

func TestCloneDoesNotAlias(t *testing.T) {
	original := Customer{
		ID:                  "c1",
		PotentialStrategies: []string{"STL"},
		Strategies:          []CustomerStrategy{NewCustomerStrategy(StrategySTL, time.Now())},
	}
	clone := original.Clone()

	clone.PotentialStrategies[0] = "TLS"
	clone.Strategies[0].CustomData.(*STLData).Abonos[0].Cantidad = 100
	clone.Strategies[0].Tasks = append(clone.Strategies[0].Tasks, Task{ID: "t"})

	assert.Equal(t, "STL", original.PotentialStrategies[0])
	assert.Zero(t, original.Strategies[0].CustomData.(*STLData).Abonos[0].Cantidad)
	assert.Empty(t, original.Strategies[0].Tasks)
}

func TestCustomerStrategyJSONSelectsVariant(t *testing.T) {
	raw := `{"strategyId":"DPFI","status":"En Progreso","tasks":[],"customData":{"logroCredito":true,"montoCredito":1200}}`

	var s CustomerStrategy
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	data, ok := s.CustomData.(*DPFIData)
	require.True(t, ok)
	assert.True(t, data.LogroCredito)
	assert.Equal(t, 1200.0, data.MontoCredito)
	assert.Equal(t, StrategyStatusInProgress, s.Status)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"logroCredito":true`)
}

func TestCustomerSetCoercesLooseValues(t *testing.T) {
	var c Customer
	assert.True(t, c.Set("lots", "3"))
	assert.True(t, c.Set("contratoATC", "Sí"))
	assert.True(t, c.Set("potentialStrategies", "STL; TLS;"))
	assert.True(t, c.Set("atcPrototype", ""))
	assert.False(t, c.Set("id", "other"))
	assert.False(t, c.Set("unknown", "x"))

	assert.Equal(t, 3, c.Lots)
	assert.True(t, c.ContratoATC)
	assert.Equal(t, []string{"STL", "TLS"}, c.PotentialStrategies)
	assert.Nil(t, c.ATCPrototype)
}
