// Package csvcodec maps customers to and from the flat CSV layout used for
// spreadsheet exports and bulk updates.
//
// The column set is generated from the strategy catalog, so every row has
// the same width whether or not a customer has engaged a strategy.
package csvcodec

import (
	"regexp"
	"strings"

	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
)

const (
	basicInfoPrefix = "basicInfo"
	customDataPart  = "customData"
	abonoPart       = "abono"
)

// Headers returns the full export header row.
func Headers() []string {
	headers := append([]string{}, models.BaseFields...)
	for _, f := range models.BasicInfoFields {
		headers = append(headers, basicInfoPrefix+"_"+f)
	}
	for _, def := range models.Catalog {
		headers = append(headers, StrategyColumns(def)...)
	}
	return headers
}

// StrategyColumns lists the columns of one strategy block: the generic
// engagement fields followed by the type-specific payload fields.
func StrategyColumns(def models.StrategyDefinition) []string {
	prefix := def.ID + "_"
	cols := make([]string, 0, len(models.StrategyFields))
	for _, f := range models.StrategyFields {
		cols = append(cols, prefix+f)
	}
	for _, key := range payloadKeys(def) {
		if _, _, ok := models.ParseAbonoKey(key); ok {
			cols = append(cols, prefix+key)
			continue
		}
		cols = append(cols, prefix+customDataPart+"_"+key)
	}
	return cols
}

// payloadKeys lists the custom data keys exported for a strategy, in column
// order. Installment keys use the abono_<n>_<field> form.
func payloadKeys(def models.StrategyDefinition) []string {
	var keys []string
	switch def.Kind {
	case models.KindSolidarityTitlingLoan:
		keys = append(keys, models.STLFields...)
		for n := 1; n <= models.NumPayments; n++ {
			for _, f := range models.AbonoFields {
				keys = append(keys, models.AbonoKey(n, f))
			}
		}
	case models.KindTailoredLegalSupport:
		keys = append(keys, models.TLSFields...)
		for _, proc := range models.LegalProcedures {
			col := models.ProcedureColumn(proc)
			keys = append(keys, col+"_status", col+"_subStatus")
		}
	case models.KindDirectPromotionFI:
		keys = append(keys, models.DPFIFields...)
	case models.KindTechnicalAssistanceIncentive:
		keys = append(keys, models.TAIFields...)
	case models.KindGeneric:
		for _, f := range def.Fields {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

var (
	booleanPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^has[A-Z]`),
		regexp.MustCompile(`^basicInfo_has[A-Z]`),
		regexp.MustCompile(`_(offered|accepted|realizado|validado)$`),
		regexp.MustCompile(`_(firmoAdenda|recibioFlyer|agendoCitaAsesoria|solicitoInformacionIF|logroCredito|startedConstructionWithin60Days)$`),
	}
	booleanColumns = map[string]struct{}{
		"modificacionLote":    {},
		"contratoATC":         {},
		"pagoATC":             {},
		"startedConstruction": {},
	}
	// Tri-state answers look like has* flags but carry three values.
	textColumns = map[string]struct{}{
		"hasCredit":  {},
		"hasSavings": {},
	}

	numericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)_[a-z]*(cantidad|amount|count|prototype)$`),
		regexp.MustCompile(`(?i)_(monto|numero)[a-z]*$`),
		regexp.MustCompile(`_lots$`),
		regexp.MustCompile(`_pathwayToTitling$`),
	}
	numericColumns = map[string]struct{}{
		"lots":             {},
		"pathwayToTitling": {},
		"atcAmount":        {},
		"atcPrototype":     {},
	}
)

// IsBooleanColumn reports whether values of header are coerced to booleans.
func IsBooleanColumn(header string) bool {
	if _, ok := textColumns[header]; ok {
		return false
	}
	if _, ok := booleanColumns[header]; ok {
		return true
	}
	for _, p := range booleanPatterns {
		if p.MatchString(header) {
			return true
		}
	}
	return false
}

// IsNumericColumn reports whether values of header are coerced to numbers.
func IsNumericColumn(header string) bool {
	if _, ok := numericColumns[header]; ok {
		return true
	}
	for _, p := range numericPatterns {
		if p.MatchString(header) {
			return true
		}
	}
	return false
}

// TypedValue converts a trimmed cell by its column's pattern: boolean,
// numeric (empty is zero) or text. Optional numbers stay empty so they remain
// undefined.
func TypedValue(header, value string) any {
	value = strings.TrimSpace(value)
	switch {
	case IsBooleanColumn(header):
		return coerce.Bool(value)
	case header == "atcPrototype" && value == "":
		return nil
	case IsNumericColumn(header):
		return coerce.Number(value)
	default:
		return value
	}
}
