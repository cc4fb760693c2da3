package models

import (
	"encoding/json"
	"strings"
	"time"

	"titling/internal/customer/coerce"
)

// SchemaVersion tags records written by the current normalizer. Records
// without a tag are migrated by shape sniffing.
const SchemaVersion = 2

// TimestampLayout is the ISO-8601 form used for every stored timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Customer is the root aggregate: one household and its strategies.
type Customer struct {
	ID                         string             `json:"id"`
	PaternalLastName           string             `json:"paternalLastName"`
	MaternalLastName           string             `json:"maternalLastName"`
	FirstName                  string             `json:"firstName"`
	Contact                    string             `json:"contact"`
	Lots                       int                `json:"lots"`
	Manzana                    string             `json:"manzana"`
	Lote                       string             `json:"lote"`
	LegalStatus                LegalStatus        `json:"legalStatus"`
	Group                      string             `json:"group"`
	PathwayToTitling           int                `json:"pathwayToTitling"`
	HasCredit                  TriState           `json:"hasCredit"`
	HasSavings                 TriState           `json:"hasSavings"`
	Motivation                 string             `json:"motivation"`
	Responsable                string             `json:"responsable"`
	ModificacionLote           bool               `json:"modificacionLote"`
	ContratoATC                bool               `json:"contratoATC"`
	PagoATC                    bool               `json:"pagoATC"`
	StatusCarpetaATC           FolderStatus       `json:"statusCarpetaATC"`
	RecordatorioEntregaCarpeta string             `json:"recordatorioEntregaCarpeta"`
	StartedConstruction        bool               `json:"startedConstruction"`
	HasTituloPropiedad         bool               `json:"hasTituloPropiedad"`
	HasDeslinde                bool               `json:"hasDeslinde"`
	HasPermisoConstruccion     bool               `json:"hasPermisoConstruccion"`
	ATCAmount                  float64            `json:"atcAmount"`
	ATCFolderDeliveryDate      string             `json:"atcFolderDeliveryDate"`
	ATCPrototype               *int               `json:"atcPrototype,omitempty"`
	ATCPrototypeType           string             `json:"atcPrototypeType"`
	BasicInfo                  BasicInfo          `json:"basicInfo"`
	PotentialStrategies        []string           `json:"potentialStrategies"`
	Strategies                 []CustomerStrategy `json:"strategies"`
	History                    []ChangeLogEntry   `json:"history"`
	LastUpdate                 string             `json:"lastUpdate"`
	SchemaVersion              int                `json:"schemaVersion"`
}

// BaseFields is the export order of the single-segment customer columns.
var BaseFields = []string{
	"id", "paternalLastName", "maternalLastName", "firstName", "contact", "lots", "manzana", "lote",
	"legalStatus", "group", "pathwayToTitling", "hasCredit", "hasSavings", "motivation", "responsable",
	"modificacionLote", "contratoATC", "pagoATC", "statusCarpetaATC", "recordatorioEntregaCarpeta",
	"startedConstruction", "hasTituloPropiedad", "hasDeslinde", "hasPermisoConstruccion",
	"atcAmount", "atcFolderDeliveryDate", "atcPrototype", "atcPrototypeType", "potentialStrategies",
	"lastUpdate",
}

// ProcedureFlags are the three checklist items that make up the titling pathway.
type ProcedureFlags struct {
	TituloPropiedad     bool
	Deslinde            bool
	PermisoConstruccion bool
}

func (c *Customer) ProcedureFlags() ProcedureFlags {
	return ProcedureFlags{
		TituloPropiedad:     c.HasTituloPropiedad,
		Deslinde:            c.HasDeslinde,
		PermisoConstruccion: c.HasPermisoConstruccion,
	}
}

// FullName joins the name parts the way lists display them.
func (c *Customer) FullName() string {
	return strings.Join(strings.Fields(c.FirstName+" "+c.PaternalLastName+" "+c.MaternalLastName), " ")
}

// Strategy returns the customer's engagement with strategyID, if any.
func (c *Customer) Strategy(strategyID string) (*CustomerStrategy, bool) {
	for i := range c.Strategies {
		if c.Strategies[i].StrategyID == strategyID {
			return &c.Strategies[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so mutations never alias a stored snapshot.
func (c Customer) Clone() Customer {
	out := c
	if c.ATCPrototype != nil {
		v := *c.ATCPrototype
		out.ATCPrototype = &v
	}
	out.PotentialStrategies = append([]string{}, c.PotentialStrategies...)
	out.History = append([]ChangeLogEntry{}, c.History...)
	out.Strategies = make([]CustomerStrategy, len(c.Strategies))
	for i, s := range c.Strategies {
		out.Strategies[i] = s.Clone()
	}
	return out
}

// Get returns the value of a single-segment field, or nil for unknown keys.
func (c *Customer) Get(key string) any {
	switch key {
	case "id":
		return c.ID
	case "paternalLastName":
		return c.PaternalLastName
	case "maternalLastName":
		return c.MaternalLastName
	case "firstName":
		return c.FirstName
	case "contact":
		return c.Contact
	case "lots":
		return c.Lots
	case "manzana":
		return c.Manzana
	case "lote":
		return c.Lote
	case "legalStatus":
		return string(c.LegalStatus)
	case "group":
		return c.Group
	case "pathwayToTitling":
		return c.PathwayToTitling
	case "hasCredit":
		return string(c.HasCredit)
	case "hasSavings":
		return string(c.HasSavings)
	case "motivation":
		return c.Motivation
	case "responsable":
		return c.Responsable
	case "modificacionLote":
		return c.ModificacionLote
	case "contratoATC":
		return c.ContratoATC
	case "pagoATC":
		return c.PagoATC
	case "statusCarpetaATC":
		return string(c.StatusCarpetaATC)
	case "recordatorioEntregaCarpeta":
		return c.RecordatorioEntregaCarpeta
	case "startedConstruction":
		return c.StartedConstruction
	case "hasTituloPropiedad":
		return c.HasTituloPropiedad
	case "hasDeslinde":
		return c.HasDeslinde
	case "hasPermisoConstruccion":
		return c.HasPermisoConstruccion
	case "atcAmount":
		return c.ATCAmount
	case "atcFolderDeliveryDate":
		return c.ATCFolderDeliveryDate
	case "atcPrototype":
		if c.ATCPrototype == nil {
			return nil
		}
		return *c.ATCPrototype
	case "atcPrototypeType":
		return c.ATCPrototypeType
	case "potentialStrategies":
		return c.PotentialStrategies
	case "lastUpdate":
		return c.LastUpdate
	}
	return nil
}

// Set assigns a single-segment field from a loosely typed value. The id is
// not assignable. It reports whether key named a known field.
func (c *Customer) Set(key string, v any) bool {
	switch key {
	case "paternalLastName":
		c.PaternalLastName = coerce.String(v)
	case "maternalLastName":
		c.MaternalLastName = coerce.String(v)
	case "firstName":
		c.FirstName = coerce.String(v)
	case "contact":
		c.Contact = coerce.String(v)
	case "lots":
		c.Lots = coerce.Int(v)
	case "manzana":
		c.Manzana = coerce.String(v)
	case "lote":
		c.Lote = coerce.String(v)
	case "legalStatus":
		c.LegalStatus = LegalStatus(coerce.String(v))
	case "group":
		c.Group = coerce.String(v)
	case "pathwayToTitling":
		c.PathwayToTitling = coerce.Int(v)
	case "hasCredit":
		c.HasCredit = TriState(coerce.String(v))
	case "hasSavings":
		c.HasSavings = TriState(coerce.String(v))
	case "motivation":
		c.Motivation = coerce.String(v)
	case "responsable":
		c.Responsable = coerce.String(v)
	case "modificacionLote":
		c.ModificacionLote = coerce.Bool(v)
	case "contratoATC":
		c.ContratoATC = coerce.Bool(v)
	case "pagoATC":
		c.PagoATC = coerce.Bool(v)
	case "statusCarpetaATC":
		c.StatusCarpetaATC = FolderStatus(coerce.String(v))
	case "recordatorioEntregaCarpeta":
		c.RecordatorioEntregaCarpeta = coerce.String(v)
	case "startedConstruction":
		c.StartedConstruction = coerce.Bool(v)
	case "hasTituloPropiedad":
		c.HasTituloPropiedad = coerce.Bool(v)
	case "hasDeslinde":
		c.HasDeslinde = coerce.Bool(v)
	case "hasPermisoConstruccion":
		c.HasPermisoConstruccion = coerce.Bool(v)
	case "atcAmount":
		c.ATCAmount = coerce.Number(v)
	case "atcFolderDeliveryDate":
		c.ATCFolderDeliveryDate = coerce.String(v)
	case "atcPrototype":
		c.ATCPrototype = coerce.OptionalInt(v)
	case "atcPrototypeType":
		c.ATCPrototypeType = coerce.String(v)
	case "potentialStrategies":
		c.PotentialStrategies = splitList(v)
	case "lastUpdate":
		c.LastUpdate = coerce.String(v)
	default:
		return false
	}
	return true
}

func splitList(v any) []string {
	if list := coerce.Strings(v); list != nil {
		return list
	}
	s := strings.TrimSpace(coerce.String(v))
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Task is a to-do item under a customer's strategy.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo"`
	IsCompleted bool   `json:"isCompleted"`
}

// Set assigns an editable task field. The id is not assignable.
func (t *Task) Set(key string, v any) bool {
	switch key {
	case "description":
		t.Description = coerce.String(v)
	case "dueDate":
		t.DueDate = coerce.String(v)
	case "assignedTo":
		t.AssignedTo = coerce.String(v)
	case "isCompleted":
		t.IsCompleted = coerce.Bool(v)
	default:
		return false
	}
	return true
}

// ChangeLogEntry is one immutable line of a customer's history.
type ChangeLogEntry struct {
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
	Description string `json:"description"`
}

// CustomerStrategy is one customer's engagement with a catalog strategy.
type CustomerStrategy struct {
	StrategyID           string         `json:"strategyId"`
	Offered              bool           `json:"offered"`
	Accepted             bool           `json:"accepted"`
	Status               StrategyStatus `json:"status"`
	LastUpdate           string         `json:"lastUpdate"`
	Tasks                []Task         `json:"tasks"`
	CustomData           CustomData     `json:"customData"`
	LastOfferContactDate string         `json:"lastOfferContactDate"`
	OfferResponsible     string         `json:"offerResponsible"`
	OfferComments        string         `json:"offerComments"`
}

// StrategyFields is the export order of the per-strategy generic columns.
var StrategyFields = []string{"offered", "accepted", "status", "lastOfferContactDate", "offerComments"}

// NewCustomerStrategy returns a freshly activated strategy with default payload.
func NewCustomerStrategy(strategyID string, now time.Time) CustomerStrategy {
	return CustomerStrategy{
		StrategyID: strategyID,
		Status:     StrategyStatusNotStarted,
		LastUpdate: Timestamp(now),
		Tasks:      []Task{},
		CustomData: NewCustomData(strategyID),
	}
}

func (s CustomerStrategy) Clone() CustomerStrategy {
	out := s
	out.Tasks = append([]Task{}, s.Tasks...)
	if s.CustomData != nil {
		out.CustomData = s.CustomData.Clone()
	}
	return out
}

// Task returns the task with the given id.
func (s *CustomerStrategy) Task(taskID string) (*Task, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == taskID {
			return &s.Tasks[i], true
		}
	}
	return nil, false
}

func (s *CustomerStrategy) Get(key string) any {
	switch key {
	case "offered":
		return s.Offered
	case "accepted":
		return s.Accepted
	case "status":
		return string(s.Status)
	case "lastOfferContactDate":
		return s.LastOfferContactDate
	case "offerResponsible":
		return s.OfferResponsible
	case "offerComments":
		return s.OfferComments
	case "lastUpdate":
		return s.LastUpdate
	}
	return nil
}

// Set assigns a direct strategy field. Status values outside the enum are
// ignored.
func (s *CustomerStrategy) Set(key string, v any) bool {
	switch key {
	case "offered":
		s.Offered = coerce.Bool(v)
	case "accepted":
		s.Accepted = coerce.Bool(v)
	case "status":
		if st := StrategyStatus(coerce.String(v)); st.IsValid() {
			s.Status = st
		}
	case "lastOfferContactDate":
		s.LastOfferContactDate = coerce.String(v)
	case "offerResponsible":
		s.OfferResponsible = coerce.String(v)
	case "offerComments":
		s.OfferComments = coerce.String(v)
	case "lastUpdate":
		s.LastUpdate = coerce.String(v)
	default:
		return false
	}
	return true
}

func (s *CustomerStrategy) UnmarshalJSON(b []byte) error {
	type alias CustomerStrategy
	aux := struct {
		*alias
		CustomData json.RawMessage `json:"customData"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data := NewCustomData(s.StrategyID)
	if len(aux.CustomData) > 0 && string(aux.CustomData) != "null" {
		if err := json.Unmarshal(aux.CustomData, data); err != nil {
			return err
		}
	}
	s.CustomData = data
	return nil
}
