package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"titling/internal/customer/models"
)

// =============================================================================
// Normalizer Test Suite
// =============================================================================
// Records come from a spreadsheet edited by hand across several schema
// generations. Tests cover defaults for missing data, coercion of loose
// values, every legacy migration pass and idempotence.

type NormalizeSuite struct {
	suite.Suite
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

func decode(t require.TestingT, raw string) map[string]any {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func (s *NormalizeSuite) TestDefaults() {
	s.Run("empty record gets every collection and default", func() {
		c := NormalizeCustomer(map[string]any{"id": "c1"})

		s.Equal("c1", c.ID)
		s.NotNil(c.Strategies)
		s.NotNil(c.PotentialStrategies)
		s.NotNil(c.History)
		s.Empty(c.Strategies)
		s.Equal(models.FolderStatusNotApplicable, c.StatusCarpetaATC)
		s.Equal(models.TriStateNotAvailable, c.HasCredit)
		s.Equal(models.TriStateNotAvailable, c.HasSavings)
		s.Equal(models.BasicInfo{}, c.BasicInfo)
		s.Nil(c.ATCPrototype)
		s.Equal(models.SchemaVersion, c.SchemaVersion)
	})

	s.Run("wrong-typed collections become empty", func() {
		c := NormalizeCustomer(decode(s.T(), `{"id":"c1","strategies":null,"potentialStrategies":"STL","history":{}}`))

		s.Empty(c.Strategies)
		s.Empty(c.PotentialStrategies)
		s.Empty(c.History)
	})

	s.Run("strategy without tasks or payload gets defaults", func() {
		c := NormalizeCustomer(decode(s.T(), `{"id":"c1","strategies":[{"strategyId":"STL","tasks":"oops"}]}`))

		s.Require().Len(c.Strategies, 1)
		st := c.Strategies[0]
		s.NotNil(st.Tasks)
		s.Equal(models.StrategyStatusNotStarted, st.Status)
		data, ok := st.CustomData.(*models.STLData)
		s.Require().True(ok)
		s.Len(data.Abonos, models.NumPayments)
	})

	s.Run("duplicate strategy ids keep the first entry", func() {
		c := NormalizeCustomer(decode(s.T(), `{"id":"c1","strategies":[
			{"strategyId":"TAI","accepted":true},
			{"strategyId":"TAI","accepted":false}]}`))

		s.Require().Len(c.Strategies, 1)
		s.True(c.Strategies[0].Accepted)
	})
}

func (s *NormalizeSuite) TestCoercion() {
	c := NormalizeCustomer(decode(s.T(), `{
		"id": 42,
		"lots": "3",
		"pathwayToTitling": "67",
		"atcAmount": "1500.50",
		"atcPrototype": "2",
		"contratoATC": "Sí",
		"pagoATC": "no",
		"hasDeslinde": "1",
		"startedConstruction": "",
		"strategies": [{"strategyId":"BC","offered":"verdadero","accepted":"si","customData":{"selectedBuilder":7}}]
	}`))

	s.Equal("42", c.ID)
	s.Equal(3, c.Lots)
	s.Equal(67, c.PathwayToTitling)
	s.Equal(1500.5, c.ATCAmount)
	s.Require().NotNil(c.ATCPrototype)
	s.Equal(2, *c.ATCPrototype)
	s.True(c.ContratoATC)
	s.False(c.PagoATC)
	s.True(c.HasDeslinde)
	s.False(c.StartedConstruction)
	s.True(c.Strategies[0].Offered)
	s.True(c.Strategies[0].Accepted)
	s.Equal("7", c.Strategies[0].CustomData.(*models.GenericData).Values["selectedBuilder"])
}

func (s *NormalizeSuite) TestCreditMigration() {
	tests := []struct {
		name    string
		raw     string
		credit  models.TriState
		savings models.TriState
	}{
		{"valid values are kept", `{"hasCredit":"No","hasSavings":"Sí","financialStatus":"Crédito Vigente"}`, models.TriStateNo, models.TriStateYes},
		{"active credit", `{"financialStatus":"Crédito Vigente"}`, models.TriStateYes, models.TriStateNotAvailable},
		{"paid off", `{"financialStatus":"Pagado"}`, models.TriStateYes, models.TriStateNotAvailable},
		{"default", `{"financialStatus":"En Mora"}`, models.TriStateYes, models.TriStateNotAvailable},
		{"no credit", `{"financialStatus":"Sin Crédito"}`, models.TriStateNo, models.TriStateNotAvailable},
		{"unknown", `{"hasCredit":"maybe","financialStatus":"?"}`, models.TriStateNotAvailable, models.TriStateNotAvailable},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			c := NormalizeCustomer(decode(s.T(), tt.raw))
			s.Equal(tt.credit, c.HasCredit)
			s.Equal(tt.savings, c.HasSavings)
		})
	}
}

func (s *NormalizeSuite) TestLegalSupportMigration() {
	tls := func(customData string) *models.TLSData {
		c := NormalizeCustomer(decode(s.T(), `{"id":"c","strategies":[{"strategyId":"TLS","customData":`+customData+`}]}`))
		data, ok := c.Strategies[0].CustomData.(*models.TLSData)
		s.Require().True(ok)
		return data
	}

	s.Run("current procedure pointer becomes per-procedure status", func() {
		data := tls(`{"tramiteActual":"Deslinde","estatusTramite":"Completado"}`)

		s.Equal(models.ProcedureCompleted, data.ProcedureStatus["Título de propiedad"].Status)
		s.Equal(models.ProcedureCompleted, data.ProcedureStatus["Deslinde"].Status)
		s.Equal(models.ProcedureNotStarted, data.ProcedureStatus["Permiso de construcción"].Status)
	})

	s.Run("pointer status defaults to not started and legacy label is translated", func() {
		data := tls(`{"tramiteActual":"Permiso de construcción","estatusTramite":"En proceso"}`)
		s.Equal(models.ProcedureBeingAdvised, data.ProcedureStatus["Permiso de construcción"].Status)

		data = tls(`{"tramiteActual":"Deslinde"}`)
		s.Equal(models.ProcedureNotStarted, data.ProcedureStatus["Deslinde"].Status)
	})

	s.Run("pointer past the current list completes everything", func() {
		data := tls(`{"tramiteActual":"Inicio de construcción","estatusTramite":"En proceso"}`)
		for _, p := range models.LegalProcedures {
			s.Equal(models.ProcedureCompleted, data.ProcedureStatus[p].Status, p)
		}
	})

	s.Run("string statuses become objects", func() {
		data := tls(`{"procedureStatus":{"Título de propiedad":"Completado","Deslinde":"En proceso","Permiso de construcción":"whatever"}}`)

		s.Equal(models.ProcedureStatus{Status: models.ProcedureCompleted}, data.ProcedureStatus["Título de propiedad"])
		s.Equal(models.ProcedureBeingAdvised, data.ProcedureStatus["Deslinde"].Status)
		s.Equal(models.ProcedureNotStarted, data.ProcedureStatus["Permiso de construcción"].Status)
	})

	s.Run("contacted flag becomes a counter", func() {
		s.Equal(1, tls(`{"contactado":true}`).ContactCount)
		s.Equal(0, tls(`{"contactado":false}`).ContactCount)
		s.Equal(3, tls(`{"contactado":true,"contactCount":3}`).ContactCount)
		s.Equal(0, tls(`{}`).ContactCount)
	})

	s.Run("current shape is untouched", func() {
		data := tls(`{"procedureStatus":{"Deslinde":{"status":"Siendo asesorado","subStatus":"Documento en presidencia municipal"}},"contactCount":2}`)

		s.Equal(models.ProcedureStatus{Status: models.ProcedureBeingAdvised, SubStatus: models.SubStatusAtMunicipalOffices}, data.ProcedureStatus["Deslinde"])
		s.Equal(2, data.ContactCount)
		s.Len(data.ProcedureStatus, len(models.LegalProcedures))
	})
}

func (s *NormalizeSuite) TestDirectPromotionMigration() {
	dpfi := func(customData string) *models.DPFIData {
		c := NormalizeCustomer(decode(s.T(), `{"id":"c","strategies":[{"strategyId":"DPFI","customData":`+customData+`}]}`))
		data, ok := c.Strategies[0].CustomData.(*models.DPFIData)
		s.Require().True(ok)
		return data
	}

	data := dpfi(`{"citaInformacion":"2024-02-01","contactado":true,"recibioAsesoria":"Sí","seguimiento":true}`)
	s.Equal("2024-02-01", data.FechaCitaAsesoria)
	s.Equal(1, data.NumeroContacto)
	s.True(data.AgendoCitaAsesoria)

	data = dpfi(`{"citaInformacion":"2024-02-01","fechaCitaAsesoria":"2024-03-01","contactado":true,"numeroContacto":4,"recibioAsesoria":true,"agendoCitaAsesoria":false}`)
	s.Equal("2024-03-01", data.FechaCitaAsesoria)
	s.Equal(4, data.NumeroContacto)
	s.False(data.AgendoCitaAsesoria)
}

func (s *NormalizeSuite) TestVersionTaggedRecordsStillMigrate() {
	c := NormalizeCustomer(decode(s.T(), `{"id":"c","schemaVersion":2,"strategies":[
		{"strategyId":"TLS","customData":{"procedureStatus":{
			"Título de propiedad":{"status":"Completado"},
			"Deslinde":{"status":"Completado"},
			"Permiso de construcción":"Completado"},"contactado":true}},
		{"strategyId":"DPFI","customData":{"contactado":true}}]}`))

	data, ok := c.Strategies[0].CustomData.(*models.TLSData)
	s.Require().True(ok)
	s.Equal(models.ProcedureStatus{Status: models.ProcedureCompleted}, data.ProcedureStatus["Permiso de construcción"])
	s.Equal(1, data.ContactCount)
	s.Equal(1, c.Strategies[1].CustomData.(*models.DPFIData).NumeroContacto)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"id":"a","financialStatus":"Pagado","lots":"2","atcPrototype":"3","potentialStrategies":["STL","DI"],
		  "basicInfo":{"curp":"X","hasOtherProperty":"si"},
		  "history":[{"timestamp":"2024-01-01T00:00:00.000Z","user":"u","description":"d"}],
		  "strategies":[
			{"strategyId":"STL","accepted":"true","customData":{"montoPrestamo":"5500","abonos":[{"realizado":"1","cantidad":"100","validado":true}]}},
			{"strategyId":"TLS","customData":{"tramiteActual":"Deslinde","estatusTramite":"En proceso","contactado":true}},
			{"strategyId":"DPFI","customData":{"citaInformacion":"2024-01-01","contactado":false}},
			{"strategyId":"TAI","customData":{"notes":"n"}},
			{"strategyId":"DI","customData":{"fiName":"Caja","extra":"kept"}},
			{"strategyId":"ZZ","status":"Rechazado","tasks":[{"id":"t","isCompleted":"sí"}]}
		  ]}`,
	}
	for _, in := range inputs {
		once := NormalizeCustomer(decode(t, in))
		twice := NormalizeCustomer(Raw(once))
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeAllSkipsNonObjects(t *testing.T) {
	out := NormalizeAll([]any{map[string]any{"id": "a"}, "junk", nil, map[string]any{"id": "b"}})
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].ID)
}
