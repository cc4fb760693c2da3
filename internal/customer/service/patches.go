package service

import (
	"slices"
	"sort"
	"strings"

	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
	dErrors "titling/pkg/domain-errors"
)

// DetailsPatch carries customer-level fields keyed by their wire names.
// Values are loosely typed and go through the model setters.
type DetailsPatch map[string]any

// DetailKeys are the fields UpdateDetails accepts, in the order their history
// entries are written.
var DetailKeys = []string{
	"firstName", "paternalLastName", "maternalLastName", "contact", "lots",
	"legalStatus", "group", "manzana", "lote", "responsable",
	"hasCredit", "hasSavings", "motivation", "modificacionLote",
	"contratoATC", "pagoATC", "statusCarpetaATC", "recordatorioEntregaCarpeta",
	"startedConstruction", "hasTituloPropiedad", "hasDeslinde", "hasPermisoConstruccion",
	"atcAmount", "atcFolderDeliveryDate", "atcPrototype", "atcPrototypeType",
}

func (p DetailsPatch) validate() error {
	if len(p) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "No se recibieron campos para actualizar.")
	}
	if err := unknownKeys(p, DetailKeys); err != nil {
		return err
	}
	if v, ok := p["legalStatus"]; ok && !models.LegalStatus(coerce.String(v)).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "Estatus legal inválido: "+coerce.String(v))
	}
	for _, key := range []string{"hasCredit", "hasSavings"} {
		if v, ok := p[key]; ok && !models.TriState(coerce.String(v)).IsValid() {
			return dErrors.New(dErrors.CodeValidation, "Valor inválido para "+key+": "+coerce.String(v))
		}
	}
	if v, ok := p["statusCarpetaATC"]; ok && !models.FolderStatus(coerce.String(v)).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "Estatus de carpeta ATC inválido: "+coerce.String(v))
	}
	return nil
}

func (p DetailsPatch) apply(c *models.Customer) {
	for _, key := range DetailKeys {
		if v, ok := p[key]; ok {
			c.Set(key, v)
		}
	}
}

// BasicInfoPatch carries intake sheet fields keyed by their wire names.
type BasicInfoPatch map[string]any

func (p BasicInfoPatch) validate() error {
	if len(p) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "No se recibieron campos para actualizar.")
	}
	return unknownKeys(p, models.BasicInfoFields)
}

func (p BasicInfoPatch) apply(b *models.BasicInfo) {
	for _, key := range models.BasicInfoFields {
		if v, ok := p[key]; ok {
			b.Set(key, v)
		}
	}
}

// StrategyPatch carries offer fields of a customer strategy. Status changes
// go through SetStrategyStatus.
type StrategyPatch map[string]any

var strategyPatchKeys = []string{"offered", "accepted", "lastOfferContactDate", "offerResponsible", "offerComments"}

func (p StrategyPatch) validate() error {
	if len(p) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "No se recibieron campos para actualizar.")
	}
	return unknownKeys(p, strategyPatchKeys)
}

func (p StrategyPatch) apply(s *models.CustomerStrategy) {
	for _, key := range strategyPatchKeys {
		if v, ok := p[key]; ok {
			s.Set(key, v)
		}
	}
}

// NewTask describes a task to add. The id and completion flag are assigned.
type NewTask struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo"`
}

func (t NewTask) validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return dErrors.New(dErrors.CodeValidation, "La tarea requiere una descripción.")
	}
	return nil
}

// TaskPatch carries editable task fields.
type TaskPatch map[string]any

var taskPatchKeys = []string{"description", "dueDate", "assignedTo", "isCompleted"}

func (p TaskPatch) validate() error {
	if len(p) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "No se recibieron campos para actualizar.")
	}
	return unknownKeys(p, taskPatchKeys)
}

func (p TaskPatch) apply(t *models.Task) {
	for _, key := range taskPatchKeys {
		if v, ok := p[key]; ok {
			t.Set(key, v)
		}
	}
}

func unknownKeys[M ~map[string]any](patch M, allowed []string) error {
	var unknown []string
	for key := range patch {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return dErrors.New(dErrors.CodeValidation, "Campos no editables: "+strings.Join(unknown, ", "))
}
