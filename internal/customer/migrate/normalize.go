// Package migrate turns loosely typed customer records into the canonical
// model.
//
// Records arrive from a spreadsheet that has been hand-edited for years and
// written by several schema generations. Normalization never fails: missing
// fields take defaults, wrong types are coerced and legacy shapes are
// migrated. Each legacy pass is selected by sniffing for its target shape, so
// records at different generations normalize in a single pass. The schema
// version tag is metadata: hand edits can bring legacy shapes back into a
// tagged record, so every pass runs regardless of it.
package migrate

import (
	"encoding/json"

	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
)

// NormalizeAll normalizes every object in raws, dropping entries that are not
// objects.
func NormalizeAll(raws []any) []models.Customer {
	out := make([]models.Customer, 0, len(raws))
	for _, r := range raws {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, NormalizeCustomer(m))
	}
	return out
}

// NormalizeCustomer builds a canonical customer from raw. It is idempotent:
// NormalizeCustomer(Raw(NormalizeCustomer(x))) equals NormalizeCustomer(x).
func NormalizeCustomer(raw map[string]any) models.Customer {
	c := models.Customer{
		ID:            coerce.String(raw["id"]),
		SchemaVersion: models.SchemaVersion,
	}
	for _, key := range models.BaseFields {
		switch key {
		case "id", "potentialStrategies", "hasCredit", "hasSavings":
			continue
		}
		c.Set(key, raw[key])
	}
	if c.StatusCarpetaATC == "" {
		c.StatusCarpetaATC = models.FolderStatusNotApplicable
	}

	c.HasCredit, c.HasSavings = creditAndSavings(raw)
	c.PotentialStrategies = stringList(raw["potentialStrategies"])
	c.BasicInfo = basicInfo(raw["basicInfo"])
	c.History = history(raw["history"])
	c.Strategies = strategies(raw["strategies"])
	return c
}

// Raw renders c as the loosely typed map the persistence API exchanges.
func Raw(c models.Customer) map[string]any {
	b, err := json.Marshal(c)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// creditAndSavings keeps valid tri-state values and otherwise derives credit
// from the retired financialStatus field.
func creditAndSavings(raw map[string]any) (models.TriState, models.TriState) {
	credit := models.TriState(coerce.String(raw["hasCredit"]))
	if !credit.IsValid() {
		switch models.FinancialStatus(coerce.String(raw["financialStatus"])) {
		case models.FinancialStatusActiveCredit, models.FinancialStatusPaidOff, models.FinancialStatusDefault:
			credit = models.TriStateYes
		case models.FinancialStatusNoCredit:
			credit = models.TriStateNo
		default:
			credit = models.TriStateNotAvailable
		}
	}
	savings := models.TriState(coerce.String(raw["hasSavings"]))
	if !savings.IsValid() {
		savings = models.TriStateNotAvailable
	}
	return credit, savings
}

func stringList(v any) []string {
	if list := coerce.Strings(v); list != nil {
		return list
	}
	return []string{}
}

func basicInfo(v any) models.BasicInfo {
	var info models.BasicInfo
	m, ok := v.(map[string]any)
	if !ok {
		return info
	}
	for _, key := range models.BasicInfoFields {
		info.Set(key, m[key])
	}
	return info
}

func history(v any) []models.ChangeLogEntry {
	items, ok := v.([]any)
	if !ok {
		return []models.ChangeLogEntry{}
	}
	out := make([]models.ChangeLogEntry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.ChangeLogEntry{
			Timestamp:   coerce.String(m["timestamp"]),
			User:        coerce.String(m["user"]),
			Description: coerce.String(m["description"]),
		})
	}
	return out
}

// strategies keeps the first entry per strategy id.
func strategies(v any) []models.CustomerStrategy {
	items, ok := v.([]any)
	if !ok {
		return []models.CustomerStrategy{}
	}
	out := make([]models.CustomerStrategy, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s := strategy(m)
		if _, dup := seen[s.StrategyID]; dup {
			continue
		}
		seen[s.StrategyID] = struct{}{}
		out = append(out, s)
	}
	return out
}

func strategy(m map[string]any) models.CustomerStrategy {
	s := models.CustomerStrategy{
		StrategyID:           coerce.String(m["strategyId"]),
		Offered:              coerce.Bool(m["offered"]),
		Accepted:             coerce.Bool(m["accepted"]),
		Status:               models.StrategyStatusNotStarted,
		LastUpdate:           coerce.String(m["lastUpdate"]),
		LastOfferContactDate: coerce.String(m["lastOfferContactDate"]),
		OfferResponsible:     coerce.String(m["offerResponsible"]),
		OfferComments:        coerce.String(m["offerComments"]),
		Tasks:                tasks(m["tasks"]),
	}
	if st := models.StrategyStatus(coerce.String(m["status"])); st.IsValid() {
		s.Status = st
	}
	s.CustomData = customData(s.StrategyID, m["customData"])
	return s
}

func tasks(v any) []models.Task {
	items, ok := v.([]any)
	if !ok {
		return []models.Task{}
	}
	out := make([]models.Task, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.Task{
			ID:          coerce.String(m["id"]),
			Description: coerce.String(m["description"]),
			DueDate:     coerce.String(m["dueDate"]),
			AssignedTo:  coerce.String(m["assignedTo"]),
			IsCompleted: coerce.Bool(m["isCompleted"]),
		})
	}
	return out
}
