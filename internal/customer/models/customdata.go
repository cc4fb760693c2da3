package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"titling/internal/customer/coerce"
)

// CustomData is the strategy-specific payload of a CustomerStrategy. The
// concrete type is chosen by the strategy's catalog kind; consumers dispatch
// with a type switch over the variants below.
type CustomData interface {
	Kind() StrategyKind
	Clone() CustomData
	// Set assigns a loosely typed value to key. It reports whether the key
	// addressed something on the variant.
	Set(key string, value any) bool
	isCustomData()
}

// NewCustomData returns the default payload for a newly activated strategy.
func NewCustomData(strategyID string) CustomData {
	def, ok := LookupStrategy(strategyID)
	if !ok {
		return &GenericData{StrategyID: strategyID, Values: map[string]any{}}
	}
	switch def.Kind {
	case KindSolidarityTitlingLoan:
		abonos := make([]Abono, NumPayments)
		return &STLData{Riesgo: RiskLow, MontoPrestamo: LoanAmount, Abonos: abonos}
	case KindTailoredLegalSupport:
		procs := make(map[string]ProcedureStatus, len(LegalProcedures))
		for _, p := range LegalProcedures {
			procs[p] = ProcedureStatus{Status: ProcedureNotStarted}
		}
		return &TLSData{ProcedureStatus: procs}
	case KindDirectPromotionFI:
		return &DPFIData{}
	case KindTechnicalAssistanceIncentive:
		return &TAIData{}
	default:
		values := make(map[string]any, len(def.Fields))
		for _, f := range def.Fields {
			if f.Type == FieldNumber {
				values[f.Key] = 0.0
			} else {
				values[f.Key] = ""
			}
		}
		return &GenericData{StrategyID: strategyID, Values: values}
	}
}

// -----------------------------------------------------------------------------
// Solidarity titling loan
// -----------------------------------------------------------------------------

// Abono is one installment of a solidarity titling loan.
type Abono struct {
	Realizado   bool    `json:"realizado"`
	Cantidad    float64 `json:"cantidad"`
	Fecha       string  `json:"fecha"`
	FormaDePago string  `json:"formaDePago"`
	Comprobante string  `json:"comprobante"`
	Validado    bool    `json:"validado"`
}

// AbonoFields is the column order of one installment slot.
var AbonoFields = []string{"realizado", "cantidad", "fecha", "formaDePago", "comprobante", "validado"}

func (a *Abono) Set(field string, v any) bool {
	switch field {
	case "realizado":
		a.Realizado = coerce.Bool(v)
	case "cantidad":
		a.Cantidad = coerce.Number(v)
	case "fecha":
		a.Fecha = coerce.String(v)
	case "formaDePago":
		a.FormaDePago = coerce.String(v)
	case "comprobante":
		a.Comprobante = coerce.String(v)
	case "validado":
		a.Validado = coerce.Bool(v)
	default:
		return false
	}
	return true
}

func (a Abono) Get(field string) any {
	switch field {
	case "realizado":
		return a.Realizado
	case "cantidad":
		return a.Cantidad
	case "fecha":
		return a.Fecha
	case "formaDePago":
		return a.FormaDePago
	case "comprobante":
		return a.Comprobante
	case "validado":
		return a.Validado
	}
	return nil
}

// STLData is the payload of the solidarity titling loan strategy.
type STLData struct {
	Referencia     string   `json:"referencia"`
	Riesgo         RiskTier `json:"riesgo"`
	Expediente     string   `json:"expediente"`
	MontoPrestamo  float64  `json:"montoPrestamo"`
	FirmoAdenda    bool     `json:"firmoAdenda"`
	ModalidadAbono string   `json:"modalidadAbono"`
	Abonos         []Abono  `json:"abonos"`
}

// STLFields is the column order of the loan's fixed fields.
var STLFields = []string{"referencia", "riesgo", "expediente", "montoPrestamo", "firmoAdenda", "modalidadAbono"}

func (*STLData) Kind() StrategyKind { return KindSolidarityTitlingLoan }
func (*STLData) isCustomData()      {}

func (d *STLData) Clone() CustomData {
	c := *d
	c.Abonos = append([]Abono(nil), d.Abonos...)
	return &c
}

// Set accepts the fixed keys plus abono_<n>_<field> for installment n
// (1-based). Installments beyond the current sequence are not created.
func (d *STLData) Set(key string, v any) bool {
	if idx, field, ok := ParseAbonoKey(key); ok {
		if idx < 0 || idx >= len(d.Abonos) {
			return false
		}
		return d.Abonos[idx].Set(field, v)
	}
	switch key {
	case "referencia":
		d.Referencia = coerce.String(v)
	case "riesgo":
		d.Riesgo = RiskTier(coerce.String(v))
	case "expediente":
		d.Expediente = coerce.String(v)
	case "montoPrestamo":
		d.MontoPrestamo = coerce.Number(v)
	case "firmoAdenda":
		d.FirmoAdenda = coerce.Bool(v)
	case "modalidadAbono":
		d.ModalidadAbono = coerce.String(v)
	default:
		return false
	}
	return true
}

func (d *STLData) Get(key string) any {
	switch key {
	case "referencia":
		return d.Referencia
	case "riesgo":
		return string(d.Riesgo)
	case "expediente":
		return d.Expediente
	case "montoPrestamo":
		return d.MontoPrestamo
	case "firmoAdenda":
		return d.FirmoAdenda
	case "modalidadAbono":
		return d.ModalidadAbono
	}
	return nil
}

// ValidatedTotal sums the installments that were both paid and validated.
func (d *STLData) ValidatedTotal() float64 {
	var total float64
	for _, a := range d.Abonos {
		if a.Realizado && a.Validado {
			total += a.Cantidad
		}
	}
	return total
}

// AbonoKey builds the key addressing one installment field.
func AbonoKey(n int, field string) string {
	return "abono_" + strconv.Itoa(n) + "_" + field
}

// ParseAbonoKey splits abono_<n>_<field> into a zero-based index and field.
func ParseAbonoKey(key string) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, "abono_")
	if !ok {
		return 0, "", false
	}
	num, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" {
		return 0, "", false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", false
	}
	return n - 1, field, true
}

// -----------------------------------------------------------------------------
// Tailored legal support
// -----------------------------------------------------------------------------

// ProcedureStatus is the progress of one legal procedure.
type ProcedureStatus struct {
	Status    ProcedureState `json:"status"`
	SubStatus string         `json:"subStatus,omitempty"`
}

// TLSData is the payload of the tailored legal support strategy.
type TLSData struct {
	ProcedureStatus     map[string]ProcedureStatus `json:"procedureStatus"`
	ContactCount        int                        `json:"contactCount"`
	RecibioFlyer        bool                       `json:"recibioFlyer"`
	FechaUltimoContacto string                     `json:"fechaUltimoContacto"`
	FechaSeguimiento    string                     `json:"fechaSeguimiento"`
	Observaciones       string                     `json:"observaciones"`
}

// TLSFields is the column order of the legal support fixed fields.
var TLSFields = []string{"contactCount", "recibioFlyer", "fechaUltimoContacto", "fechaSeguimiento", "observaciones"}

func (*TLSData) Kind() StrategyKind { return KindTailoredLegalSupport }
func (*TLSData) isCustomData()      {}

func (d *TLSData) Clone() CustomData {
	c := *d
	c.ProcedureStatus = make(map[string]ProcedureStatus, len(d.ProcedureStatus))
	for k, v := range d.ProcedureStatus {
		c.ProcedureStatus[k] = v
	}
	return &c
}

// Set accepts the fixed keys plus <procedure>_status and <procedure>_subStatus
// where spaces in the procedure name may be written as underscores.
func (d *TLSData) Set(key string, v any) bool {
	if proc, field, ok := ParseProcedureKey(key); ok {
		if d.ProcedureStatus == nil {
			d.ProcedureStatus = map[string]ProcedureStatus{}
		}
		ps, exists := d.ProcedureStatus[proc]
		if !exists {
			ps.Status = ProcedureNotStarted
		}
		if field == "status" {
			ps.Status = ProcedureState(coerce.String(v))
		} else {
			ps.SubStatus = coerce.String(v)
		}
		d.ProcedureStatus[proc] = ps
		return true
	}
	switch key {
	case "contactCount":
		d.ContactCount = coerce.Int(v)
	case "recibioFlyer":
		d.RecibioFlyer = coerce.Bool(v)
	case "fechaUltimoContacto":
		d.FechaUltimoContacto = coerce.String(v)
	case "fechaSeguimiento":
		d.FechaSeguimiento = coerce.String(v)
	case "observaciones":
		d.Observaciones = coerce.String(v)
	default:
		return false
	}
	return true
}

func (d *TLSData) Get(key string) any {
	switch key {
	case "contactCount":
		return d.ContactCount
	case "recibioFlyer":
		return d.RecibioFlyer
	case "fechaUltimoContacto":
		return d.FechaUltimoContacto
	case "fechaSeguimiento":
		return d.FechaSeguimiento
	case "observaciones":
		return d.Observaciones
	}
	return nil
}

// Procedure returns the status of proc, treating a missing entry as not started.
func (d *TLSData) Procedure(proc string) ProcedureStatus {
	if ps, ok := d.ProcedureStatus[proc]; ok {
		return ps
	}
	return ProcedureStatus{Status: ProcedureNotStarted}
}

// ProcedureColumn renders a procedure name as a column-safe key prefix.
func ProcedureColumn(proc string) string {
	return strings.ReplaceAll(proc, " ", "_")
}

// IsLegalProcedure reports whether name is one of LegalProcedures.
func IsLegalProcedure(name string) bool {
	for _, p := range LegalProcedures {
		if p == name {
			return true
		}
	}
	return false
}

// ParseProcedureKey recovers the procedure name and field from
// <procedure>_status or <procedure>_subStatus. Names are matched against
// LegalProcedures case-insensitively; unmatched names are returned with
// underscores turned into spaces.
func ParseProcedureKey(key string) (string, string, bool) {
	var name, field string
	switch {
	case strings.HasSuffix(key, "_subStatus"):
		name, field = strings.TrimSuffix(key, "_subStatus"), "subStatus"
	case strings.HasSuffix(key, "_status"):
		name, field = strings.TrimSuffix(key, "_status"), "status"
	default:
		return "", "", false
	}
	if name == "" {
		return "", "", false
	}
	name = strings.ReplaceAll(name, "_", " ")
	for _, p := range LegalProcedures {
		if strings.EqualFold(p, name) {
			return p, field, true
		}
	}
	return name, field, true
}

// -----------------------------------------------------------------------------
// Direct promotion with financial institutions
// -----------------------------------------------------------------------------

// DPFIData is the payload of the direct promotion strategy.
type DPFIData struct {
	AgendoCitaAsesoria          bool    `json:"agendoCitaAsesoria"`
	FechaCitaAsesoria           string  `json:"fechaCitaAsesoria"`
	ProductoInteres             string  `json:"productoInteres"`
	FechaUltimoContacto         string  `json:"fechaUltimoContacto"`
	NumeroContacto              int     `json:"numeroContacto"`
	RecordatorioProximoContacto string  `json:"recordatorioProximoContacto"`
	SolicitoInformacionIF       bool    `json:"solicitoInformacionIF"`
	LogroCredito                bool    `json:"logroCredito"`
	Institucion                 string  `json:"institucion"`
	MontoCredito                float64 `json:"montoCredito"`
	Observaciones               string  `json:"observaciones"`
	RecibioFlyer                bool    `json:"recibioFlyer"`
}

// DPFIFields is the column order of the direct promotion payload.
var DPFIFields = []string{
	"agendoCitaAsesoria", "fechaCitaAsesoria", "productoInteres", "fechaUltimoContacto",
	"numeroContacto", "recordatorioProximoContacto", "solicitoInformacionIF", "logroCredito",
	"institucion", "montoCredito", "observaciones", "recibioFlyer",
}

// ProductsOfInterest are the institutions offered by the direct promotion form.
var ProductsOfInterest = []string{
	"José Ma. Mercado", "CAPOME", "Fray Juan Calero", "Cristobal Colón", "INFONAVIT", "Ninguna de las anteriores",
}

func (*DPFIData) Kind() StrategyKind { return KindDirectPromotionFI }
func (*DPFIData) isCustomData()      {}

func (d *DPFIData) Clone() CustomData {
	c := *d
	return &c
}

func (d *DPFIData) Set(key string, v any) bool {
	switch key {
	case "agendoCitaAsesoria":
		d.AgendoCitaAsesoria = coerce.Bool(v)
	case "fechaCitaAsesoria":
		d.FechaCitaAsesoria = coerce.String(v)
	case "productoInteres":
		d.ProductoInteres = coerce.String(v)
	case "fechaUltimoContacto":
		d.FechaUltimoContacto = coerce.String(v)
	case "numeroContacto":
		d.NumeroContacto = coerce.Int(v)
	case "recordatorioProximoContacto":
		d.RecordatorioProximoContacto = coerce.String(v)
	case "solicitoInformacionIF":
		d.SolicitoInformacionIF = coerce.Bool(v)
	case "logroCredito":
		d.LogroCredito = coerce.Bool(v)
	case "institucion":
		d.Institucion = coerce.String(v)
	case "montoCredito":
		d.MontoCredito = coerce.Number(v)
	case "observaciones":
		d.Observaciones = coerce.String(v)
	case "recibioFlyer":
		d.RecibioFlyer = coerce.Bool(v)
	default:
		return false
	}
	return true
}

func (d *DPFIData) Get(key string) any {
	switch key {
	case "agendoCitaAsesoria":
		return d.AgendoCitaAsesoria
	case "fechaCitaAsesoria":
		return d.FechaCitaAsesoria
	case "productoInteres":
		return d.ProductoInteres
	case "fechaUltimoContacto":
		return d.FechaUltimoContacto
	case "numeroContacto":
		return d.NumeroContacto
	case "recordatorioProximoContacto":
		return d.RecordatorioProximoContacto
	case "solicitoInformacionIF":
		return d.SolicitoInformacionIF
	case "logroCredito":
		return d.LogroCredito
	case "institucion":
		return d.Institucion
	case "montoCredito":
		return d.MontoCredito
	case "observaciones":
		return d.Observaciones
	case "recibioFlyer":
		return d.RecibioFlyer
	}
	return nil
}

// -----------------------------------------------------------------------------
// Technical assistance incentive
// -----------------------------------------------------------------------------

// TAIData is the payload of the technical assistance incentive strategy.
type TAIData struct {
	StartedConstructionWithin60Days bool   `json:"startedConstructionWithin60Days"`
	Notes                           string `json:"notes"`
}

// TAIFields is the column order of the incentive payload.
var TAIFields = []string{"startedConstructionWithin60Days", "notes"}

func (*TAIData) Kind() StrategyKind { return KindTechnicalAssistanceIncentive }
func (*TAIData) isCustomData()      {}

func (d *TAIData) Clone() CustomData {
	c := *d
	return &c
}

func (d *TAIData) Set(key string, v any) bool {
	switch key {
	case "startedConstructionWithin60Days":
		d.StartedConstructionWithin60Days = coerce.Bool(v)
	case "notes":
		d.Notes = coerce.String(v)
	default:
		return false
	}
	return true
}

func (d *TAIData) Get(key string) any {
	switch key {
	case "startedConstructionWithin60Days":
		return d.StartedConstructionWithin60Days
	case "notes":
		return d.Notes
	}
	return nil
}

// -----------------------------------------------------------------------------
// Generic catalog strategies
// -----------------------------------------------------------------------------

// GenericData holds the key/value payload of catalog strategies whose fields
// are defined by StrategyDefinition.Fields.
type GenericData struct {
	StrategyID string
	Values     map[string]any
}

func (*GenericData) Kind() StrategyKind { return KindGeneric }
func (*GenericData) isCustomData()      {}

func (d *GenericData) Clone() CustomData {
	c := &GenericData{StrategyID: d.StrategyID, Values: make(map[string]any, len(d.Values))}
	for k, v := range d.Values {
		c.Values[k] = v
	}
	return c
}

// Set coerces v by the catalog field type. Keys outside the catalog are kept
// verbatim.
func (d *GenericData) Set(key string, v any) bool {
	if key == "" {
		return false
	}
	if d.Values == nil {
		d.Values = map[string]any{}
	}
	def, _ := LookupStrategy(d.StrategyID)
	if f, ok := def.Field(key); ok {
		if f.Type == FieldNumber {
			d.Values[key] = coerce.Number(v)
		} else {
			d.Values[key] = coerce.String(v)
		}
		return true
	}
	d.Values[key] = v
	return true
}

func (d *GenericData) Get(key string) any {
	return d.Values[key]
}

func (d *GenericData) MarshalJSON() ([]byte, error) {
	if d.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.Values)
}

func (d *GenericData) UnmarshalJSON(b []byte) error {
	var values map[string]any
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	if d.Values == nil {
		d.Values = map[string]any{}
	}
	for k, v := range values {
		d.Set(k, v)
	}
	return nil
}

// CustomDataValue reads key from any payload variant, including the
// composite abono and procedure keys. Unknown keys and missing installments
// yield nil.
func CustomDataValue(data CustomData, key string) any {
	switch d := data.(type) {
	case *STLData:
		if idx, field, ok := ParseAbonoKey(key); ok {
			if idx < 0 || idx >= len(d.Abonos) {
				return nil
			}
			return d.Abonos[idx].Get(field)
		}
		return d.Get(key)
	case *TLSData:
		if proc, field, ok := ParseProcedureKey(key); ok {
			ps := d.Procedure(proc)
			if field == "status" {
				return string(ps.Status)
			}
			return ps.SubStatus
		}
		return d.Get(key)
	case *DPFIData:
		return d.Get(key)
	case *TAIData:
		return d.Get(key)
	case *GenericData:
		return d.Get(key)
	case nil:
		return nil
	default:
		return nil
	}
}
