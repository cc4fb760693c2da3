// Package history produces the human-readable change log entries attached to
// customer mutations.
package history

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
)

const (
	// DefaultUser attributes entries written by interactive edits.
	DefaultUser = "Sistema CRM"
	// CSVUser attributes entries written by bulk CSV updates.
	CSVUser = "Sistema CRM (CSV)"
)

// fieldLabels names the customer fields whose edits are diffed.
var fieldLabels = map[string]string{
	"firstName":                  "Nombre",
	"paternalLastName":           "Apellido Paterno",
	"maternalLastName":           "Apellido Materno",
	"contact":                    "Contacto",
	"lots":                       "Lotes",
	"group":                      "Grupo",
	"legalStatus":                "Estatus Legal",
	"responsable":                "Responsable",
	"manzana":                    "Manzana",
	"lote":                       "Lote",
	"hasCredit":                  "Tiene Crédito",
	"hasSavings":                 "Tiene Ahorros",
	"motivation":                 "Motivación",
	"modificacionLote":           "Modificación de Lote",
	"contratoATC":                "Contrato ATC",
	"pagoATC":                    "Pago ATC",
	"statusCarpetaATC":           "Estatus Carpeta ATC",
	"recordatorioEntregaCarpeta": "Recordatorio Carpeta",
	"startedConstruction":        "Inició Construcción",
	"hasTituloPropiedad":         "Título de Propiedad",
	"hasDeslinde":                "Deslinde",
	"hasPermisoConstruccion":     "Permiso de Construcción",
	"atcAmount":                  "Monto ATC",
	"atcFolderDeliveryDate":      "Fecha Entrega Carpeta",
	"atcPrototype":               "Prototipo ATC",
	"atcPrototypeType":           "Tipo Prototipo ATC",
}

// Label returns the display label of a customer field, or the key itself.
func Label(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	return key
}

// Recorder stamps entries with a clock reading and a user identifier.
type Recorder struct {
	now  func() time.Time
	user string
}

type Option func(*Recorder)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

func New(user string, opts ...Option) *Recorder {
	if user == "" {
		user = DefaultUser
	}
	r := &Recorder{now: time.Now, user: user}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// User returns the identifier stamped on entries.
func (r *Recorder) User() string {
	return r.user
}

// Now reads the recorder's clock.
func (r *Recorder) Now() time.Time {
	return r.now()
}

func (r *Recorder) entry(description string) models.ChangeLogEntry {
	return models.ChangeLogEntry{
		Timestamp:   models.Timestamp(r.now()),
		User:        r.user,
		Description: description,
	}
}

// FieldChanged describes an edit of a labelled field.
func (r *Recorder) FieldChanged(key string, oldValue, newValue any) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Actualizó \"%s\" de \"%s\" a \"%s\".", Label(key), render(oldValue), render(newValue)))
}

// Diff compares proposed values against current and yields one entry per
// field whose value actually changes, in the order of keys.
func (r *Recorder) Diff(keys []string, current, proposed func(key string) any) []models.ChangeLogEntry {
	var entries []models.ChangeLogEntry
	for _, key := range keys {
		oldValue, newValue := current(key), proposed(key)
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		entries = append(entries, r.FieldChanged(key, oldValue, newValue))
	}
	return entries
}

func (r *Recorder) GroupChanged(group string) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Cambió de grupo automáticamente a \"%s\".", group))
}

func (r *Recorder) BasicInfoUpdated() models.ChangeLogEntry {
	return r.entry("Actualizó la Ficha Básica de Información.")
}

func (r *Recorder) StrategyAcceptance(strategyID string, accepted bool) models.ChangeLogEntry {
	verb := "ya no participa en"
	if accepted {
		verb = "aceptó"
	}
	return r.entry(fmt.Sprintf("Cliente %s la estrategia \"%s\".", verb, models.StrategyName(strategyID)))
}

func (r *Recorder) StrategyStatusChanged(strategyID string, status models.StrategyStatus) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Estatus de \"%s\" cambió a \"%s\".", models.StrategyName(strategyID), string(status)))
}

func (r *Recorder) TaskToggled(strategyID, description string, completed bool) models.ChangeLogEntry {
	state := "pendiente"
	if completed {
		state = "completada"
	}
	return r.entry(fmt.Sprintf("Marcó la tarea \"%s\" como %s en \"%s\".", description, state, models.StrategyName(strategyID)))
}

func (r *Recorder) TaskAdded(strategyID, description string) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Agregó nueva tarea a \"%s\": %s.", models.StrategyName(strategyID), description))
}

func (r *Recorder) StrategyDetailUpdated(strategyID string) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Actualizó un detalle en la estrategia \"%s\".", models.StrategyName(strategyID)))
}

func (r *Recorder) PotentialStrategiesUpdated() models.ChangeLogEntry {
	return r.entry("Actualizó las estrategias potenciales.")
}

func (r *Recorder) StrategyActivated(strategyID string) models.ChangeLogEntry {
	return r.entry(fmt.Sprintf("Activó el seguimiento para la estrategia \"%s\".", models.StrategyName(strategyID)))
}

func (r *Recorder) BulkCSVUpdate() models.ChangeLogEntry {
	return r.entry("Actualizado masivamente desde archivo CSV.")
}

// Prepend puts entries ahead of history, newest first, without touching the
// existing entries.
func Prepend(history []models.ChangeLogEntry, entries ...models.ChangeLogEntry) []models.ChangeLogEntry {
	out := make([]models.ChangeLogEntry, 0, len(entries)+len(history))
	out = append(out, entries...)
	return append(out, history...)
}

// render prints a field value the way the log shows it. Undefined values
// render empty.
func render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *int:
		if t == nil {
			return ""
		}
		return strconv.Itoa(*t)
	default:
		return coerce.String(v)
	}
}
