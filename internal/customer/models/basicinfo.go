package models

import "titling/internal/customer/coerce"

// BasicInfo is the demographic intake sheet of a customer. Every field is
// always present; unanswered questions are empty strings or false.
type BasicInfo struct {
	BirthDate              string `json:"birthDate"`
	Gender                 string `json:"gender"`
	MaritalStatus          string `json:"maritalStatus"`
	CURP                   string `json:"curp"`
	AddressMunicipality    string `json:"addressMunicipality"`
	AddressColonia         string `json:"addressColonia"`
	AddressStreet          string `json:"addressStreet"`
	AddressPostalCode      string `json:"addressPostalCode"`
	AlternatePhone         string `json:"alternatePhone"`
	HousingType            string `json:"housingType"`
	ResidencyTime          string `json:"residencyTime"`
	HasOtherProperty       bool   `json:"hasOtherProperty"`
	Occupation             string `json:"occupation"`
	OccupationOther        string `json:"occupationOther"`
	MonthlyIncome          string `json:"monthlyIncome"`
	Dependents             string `json:"dependents"`
	HasCreditOrSavings     bool   `json:"hasCreditOrSavings"`
	CreditOrSavingsInfo    string `json:"creditOrSavingsInfo"`
	BelongsToSavingsGroup  bool   `json:"belongsToSavingsGroup"`
	SavingsGroupInfo       string `json:"savingsGroupInfo"`
	WantsHousingSupport    string `json:"wantsHousingSupport"`
	ImprovementType        string `json:"improvementType"`
	ImprovementTypeOther   string `json:"improvementTypeOther"`
	PreferredContactMethod string `json:"preferredContactMethod"`
	PromoterObservations   string `json:"promoterObservations"`
}

// BasicInfoFields is the canonical field order, used for the basicInfo_<field>
// export columns.
var BasicInfoFields = []string{
	"birthDate", "gender", "maritalStatus", "curp", "addressMunicipality", "addressColonia",
	"addressStreet", "addressPostalCode", "alternatePhone", "housingType", "residencyTime",
	"hasOtherProperty", "occupation", "occupationOther", "monthlyIncome", "dependents",
	"hasCreditOrSavings", "creditOrSavingsInfo", "belongsToSavingsGroup", "savingsGroupInfo",
	"wantsHousingSupport", "improvementType", "improvementTypeOther", "preferredContactMethod",
	"promoterObservations",
}

func (b *BasicInfo) textField(key string) *string {
	switch key {
	case "birthDate":
		return &b.BirthDate
	case "gender":
		return &b.Gender
	case "maritalStatus":
		return &b.MaritalStatus
	case "curp":
		return &b.CURP
	case "addressMunicipality":
		return &b.AddressMunicipality
	case "addressColonia":
		return &b.AddressColonia
	case "addressStreet":
		return &b.AddressStreet
	case "addressPostalCode":
		return &b.AddressPostalCode
	case "alternatePhone":
		return &b.AlternatePhone
	case "housingType":
		return &b.HousingType
	case "residencyTime":
		return &b.ResidencyTime
	case "occupation":
		return &b.Occupation
	case "occupationOther":
		return &b.OccupationOther
	case "monthlyIncome":
		return &b.MonthlyIncome
	case "dependents":
		return &b.Dependents
	case "creditOrSavingsInfo":
		return &b.CreditOrSavingsInfo
	case "savingsGroupInfo":
		return &b.SavingsGroupInfo
	case "wantsHousingSupport":
		return &b.WantsHousingSupport
	case "improvementType":
		return &b.ImprovementType
	case "improvementTypeOther":
		return &b.ImprovementTypeOther
	case "preferredContactMethod":
		return &b.PreferredContactMethod
	case "promoterObservations":
		return &b.PromoterObservations
	}
	return nil
}

func (b *BasicInfo) flagField(key string) *bool {
	switch key {
	case "hasOtherProperty":
		return &b.HasOtherProperty
	case "hasCreditOrSavings":
		return &b.HasCreditOrSavings
	case "belongsToSavingsGroup":
		return &b.BelongsToSavingsGroup
	}
	return nil
}

func (b *BasicInfo) Get(key string) any {
	if p := b.textField(key); p != nil {
		return *p
	}
	if p := b.flagField(key); p != nil {
		return *p
	}
	return nil
}

func (b *BasicInfo) Set(key string, v any) bool {
	if p := b.textField(key); p != nil {
		*p = coerce.String(v)
		return true
	}
	if p := b.flagField(key); p != nil {
		*p = coerce.Bool(v)
		return true
	}
	return false
}
