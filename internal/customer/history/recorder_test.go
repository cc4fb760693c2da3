package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titling/internal/customer/models"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newRecorder() *Recorder {
	return New("", WithClock(func() time.Time { return fixedNow }))
}

func TestFieldChangedTemplate(t *testing.T) {
	e := newRecorder().FieldChanged("legalStatus", models.LegalStatusPendingSignature, models.LegalStatusDeedDelivered)

	assert.Equal(t, `Actualizó "Estatus Legal" de "Pendiente de Firma" a "Escritura entregada".`, e.Description)
	assert.Equal(t, DefaultUser, e.User)
	assert.Equal(t, "2024-05-06T07:08:09.000Z", e.Timestamp)
}

func TestDiff(t *testing.T) {
	before := models.Customer{Manzana: "3", ContratoATC: false, ATCAmount: 100}
	after := before
	after.Manzana = "4"
	after.ContratoATC = true

	entries := newRecorder().Diff(
		[]string{"manzana", "lote", "contratoATC", "atcAmount"},
		before.Get, after.Get,
	)

	require.Len(t, entries, 2)
	assert.Equal(t, `Actualizó "Manzana" de "3" a "4".`, entries[0].Description)
	assert.Equal(t, `Actualizó "Contrato ATC" de "false" a "true".`, entries[1].Description)
}

func TestDiffRendersUndefinedAsEmpty(t *testing.T) {
	two := 2
	before := models.Customer{}
	after := models.Customer{ATCPrototype: &two}

	entries := newRecorder().Diff([]string{"atcPrototype"}, before.Get, after.Get)

	require.Len(t, entries, 1)
	assert.Equal(t, `Actualizó "Prototipo ATC" de "" a "2".`, entries[0].Description)
}

func TestActionTemplates(t *testing.T) {
	r := newRecorder()
	tests := []struct {
		name     string
		entry    models.ChangeLogEntry
		expected string
	}{
		{"group", r.GroupChanged("Grupo 1"), `Cambió de grupo automáticamente a "Grupo 1".`},
		{"basic info", r.BasicInfoUpdated(), `Actualizó la Ficha Básica de Información.`},
		{"accepted", r.StrategyAcceptance("STL", true), `Cliente aceptó la estrategia "Fondo Solidario para la Titulación".`},
		{"declined", r.StrategyAcceptance("TLS", false), `Cliente ya no participa en la estrategia "Titulación a la medida".`},
		{"status", r.StrategyStatusChanged("DPFI", models.StrategyStatusOnHold), `Estatus de "Promoción directa con cajas" cambió a "En Pausa".`},
		{"task done", r.TaskToggled("TAI", "Visita", true), `Marcó la tarea "Visita" como completada en "Devolución de asistencia técnica".`},
		{"task reopened", r.TaskToggled("TAI", "Visita", false), `Marcó la tarea "Visita" como pendiente en "Devolución de asistencia técnica".`},
		{"task added", r.TaskAdded("CC", "Llamar"), `Agregó nueva tarea a "Clusters de construcción": Llamar.`},
		{"detail", r.StrategyDetailUpdated("BC"), `Actualizó un detalle en la estrategia "Catálogo de albañiles y empresas constructoras".`},
		{"potential", r.PotentialStrategiesUpdated(), `Actualizó las estrategias potenciales.`},
		{"activated", r.StrategyActivated("DI"), `Activó el seguimiento para la estrategia "Intermediación de deuda de NS con cajas".`},
		{"csv", r.BulkCSVUpdate(), `Actualizado masivamente desde archivo CSV.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.Description)
		})
	}
}

func TestPrepend(t *testing.T) {
	old := []models.ChangeLogEntry{{Description: "old-1"}, {Description: "old-2"}}
	out := Prepend(old, models.ChangeLogEntry{Description: "new-1"}, models.ChangeLogEntry{Description: "new-2"})

	descriptions := make([]string, len(out))
	for i, e := range out {
		descriptions[i] = e.Description
	}
	assert.Equal(t, []string{"new-1", "new-2", "old-1", "old-2"}, descriptions)
	assert.Equal(t, "old-1", old[0].Description)
}

func TestCSVUserAttribution(t *testing.T) {
	e := New(CSVUser).BulkCSVUpdate()
	assert.Equal(t, CSVUser, e.User)
}
