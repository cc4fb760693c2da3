package models

// StrategyKind selects which CustomData variant a strategy carries.
type StrategyKind int

const (
	KindGeneric StrategyKind = iota
	KindSolidarityTitlingLoan
	KindTailoredLegalSupport
	KindDirectPromotionFI
	KindTechnicalAssistanceIncentive
)

// Strategy identifiers with a dedicated data shape.
const (
	StrategySTL  = "STL"
	StrategyTLS  = "TLS"
	StrategyDPFI = "DPFI"
	StrategyTAI  = "TAI"
)

const (
	// NumPayments is the number of installment slots a new loan is created with.
	NumPayments = 6
	// LoanAmount is the default solidarity loan principal.
	LoanAmount = 5500.0
)

// LegalProcedures is the fixed order of procedures tracked by tailored legal
// support. The last entry completing means the strategy is complete.
var LegalProcedures = []string{"Título de propiedad", "Deslinde", "Permiso de construcción"}

// LegacyProcedures is the procedure list used by records that tracked a single
// "current procedure" pointer.
var LegacyProcedures = []string{"Título de propiedad", "Deslinde", "Permiso de construcción", "Inicio de construcción"}

// FieldType is the input type of a catalog-defined strategy field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
)

// SpecificField describes one key of a generic strategy's custom data.
type SpecificField struct {
	Key   string
	Label string
	Type  FieldType
}

// StrategyDefinition is one entry of the static strategy catalog.
type StrategyDefinition struct {
	ID          string
	Name        string
	Description string
	Kind        StrategyKind
	Fields      []SpecificField
}

// Catalog lists every strategy in display and export order.
var Catalog = []StrategyDefinition{
	{
		ID:          StrategySTL,
		Name:        "Fondo Solidario para la Titulación",
		Description: "Préstamo financiero para apoyar en la consecución de un título.",
		Kind:        KindSolidarityTitlingLoan,
	},
	{
		ID:          StrategyTLS,
		Name:        "Titulación a la medida",
		Description: "Asistencia legal personalizada para las necesidades del cliente.",
		Kind:        KindTailoredLegalSupport,
	},
	{
		ID:          "DI",
		Name:        "Intermediación de deuda de NS con cajas",
		Description: "Asistencia en la negociación y gestión de deudas existentes.",
		Kind:        KindGeneric,
		Fields: []SpecificField{
			{Key: "fiName", Label: "Institución Financiera", Type: FieldText},
			{Key: "debtAmount", Label: "Monto de la Deuda ($)", Type: FieldNumber},
		},
	},
	{
		ID:          StrategyDPFI,
		Name:        "Promoción directa con cajas",
		Description: "Promoción y conexión directa con Instituciones Financieras.",
		Kind:        KindDirectPromotionFI,
	},
	{
		ID:          StrategyTAI,
		Name:        "Devolución de asistencia técnica",
		Description: "Provee asesoría técnica de construcción junto con incentivos financieros.",
		Kind:        KindTechnicalAssistanceIncentive,
	},
	{
		ID:          "BC",
		Name:        "Catálogo de albañiles y empresas constructoras",
		Description: "Acceso a un catálogo de albañiles y contratistas verificados.",
		Kind:        KindGeneric,
		Fields: []SpecificField{
			{Key: "selectedBuilder", Label: "Constructor Seleccionado", Type: FieldText},
		},
	},
	{
		ID:          "CC",
		Name:        "Clusters de construcción",
		Description: "Participación en grupos de construcción para optimizar recursos.",
		Kind:        KindGeneric,
		Fields: []SpecificField{
			{Key: "clusterName", Label: "Nombre del Cluster", Type: FieldText},
		},
	},
}

// LookupStrategy finds a catalog entry by id.
func LookupStrategy(id string) (StrategyDefinition, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return StrategyDefinition{}, false
}

// StrategyName returns the display name for id, or id itself when the
// strategy is not in the catalog.
func StrategyName(id string) string {
	if def, ok := LookupStrategy(id); ok {
		return def.Name
	}
	return id
}

// Field returns the catalog field with the given key.
func (d StrategyDefinition) Field(key string) (SpecificField, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return SpecificField{}, false
}
