package models

// LegalStatus is the titling stage of a customer's lot.
type LegalStatus string

const (
	LegalStatusDeedDelivered        LegalStatus = "Escritura entregada"
	LegalStatusSignedDeedInProgress LegalStatus = "Escritura firmada en tramite de RPP o Catastro"
	LegalStatusPendingSignature     LegalStatus = "Pendiente de Firma"
	LegalStatusNoPayment            LegalStatus = "No ha realizado pago de impuestos y derechos"
)

func (l LegalStatus) IsValid() bool {
	switch l {
	case LegalStatusDeedDelivered, LegalStatusSignedDeedInProgress, LegalStatusPendingSignature, LegalStatusNoPayment:
		return true
	}
	return false
}

// FinancialStatus is the retired single-valued credit field. It only appears
// on records written before the tri-state credit/savings flags existed.
type FinancialStatus string

const (
	FinancialStatusActiveCredit FinancialStatus = "Crédito Vigente"
	FinancialStatusNoCredit     FinancialStatus = "Sin Crédito"
	FinancialStatusPaidOff      FinancialStatus = "Pagado"
	FinancialStatusDefault      FinancialStatus = "En Mora"
)

// TriState answers yes/no questions for which legacy data may have no answer.
type TriState string

const (
	TriStateYes          TriState = "Sí"
	TriStateNo           TriState = "No"
	TriStateNotAvailable TriState = "No hay información"
)

func (t TriState) IsValid() bool {
	switch t {
	case TriStateYes, TriStateNo, TriStateNotAvailable:
		return true
	}
	return false
}

// StrategyStatus is the lifecycle state of a customer's strategy.
type StrategyStatus string

const (
	StrategyStatusNotStarted StrategyStatus = "No Iniciado"
	StrategyStatusInProgress StrategyStatus = "En Progreso"
	StrategyStatusCompleted  StrategyStatus = "Completado"
	StrategyStatusOnHold     StrategyStatus = "En Pausa"
	StrategyStatusRejected   StrategyStatus = "Rechazado"
)

func (s StrategyStatus) IsValid() bool {
	switch s {
	case StrategyStatusNotStarted, StrategyStatusInProgress, StrategyStatusCompleted,
		StrategyStatusOnHold, StrategyStatusRejected:
		return true
	}
	return false
}

// IsManualOverride reports whether s is an operator decision that automatic
// derivation must preserve.
func (s StrategyStatus) IsManualOverride() bool {
	return s == StrategyStatusOnHold || s == StrategyStatusRejected
}

// FolderStatus tracks delivery of the technical-assistance (ATC) folder.
type FolderStatus string

const (
	FolderStatusNotApplicable FolderStatus = "No aplica"
	FolderStatusInProgress    FolderStatus = "En proceso"
	FolderStatusDelivered     FolderStatus = "Entregada"
)

func (f FolderStatus) IsValid() bool {
	switch f {
	case FolderStatusNotApplicable, FolderStatusInProgress, FolderStatusDelivered:
		return true
	}
	return false
}

// RiskTier grades a solidarity titling loan.
type RiskTier string

const (
	RiskLow    RiskTier = "Bajo"
	RiskMedium RiskTier = "Medio"
	RiskHigh   RiskTier = "Alto"
)

// ProcedureState is the progress of one legal procedure under tailored legal
// support.
type ProcedureState string

const (
	ProcedureNotStarted   ProcedureState = "No iniciado"
	ProcedureBeingAdvised ProcedureState = "Siendo asesorado"
	ProcedureCompleted    ProcedureState = "Completado"

	// ProcedureLegacyInProgress is the pre-rename spelling of ProcedureBeingAdvised.
	ProcedureLegacyInProgress ProcedureState = "En proceso"
)

// Procedure substatus labels offered by the legal support form.
const (
	SubStatusPendingDocuments   = "Pendiente de entrega de documentación"
	SubStatusAtMunicipalOffices = "Documento en presidencia municipal"
)
