package migrate

import (
	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
)

// customData builds the typed payload for strategyID. A missing or non-object
// payload yields the strategy's defaults.
func customData(strategyID string, v any) models.CustomData {
	src, ok := v.(map[string]any)
	if !ok {
		return models.NewCustomData(strategyID)
	}
	m := make(map[string]any, len(src))
	for k, val := range src {
		m[k] = val
	}

	data := models.NewCustomData(strategyID)
	switch d := data.(type) {
	case *models.STLData:
		return solidarityLoan(m)
	case *models.TLSData:
		migrateLegalSupport(m)
		return legalSupport(m)
	case *models.DPFIData:
		migrateDirectPromotion(m)
		for _, key := range models.DPFIFields {
			d.Set(key, m[key])
		}
		return d
	case *models.TAIData:
		for _, key := range models.TAIFields {
			d.Set(key, m[key])
		}
		return d
	case *models.GenericData:
		for k, val := range m {
			d.Set(k, val)
		}
		return d
	default:
		return data
	}
}

func solidarityLoan(m map[string]any) *models.STLData {
	d := &models.STLData{}
	for _, key := range models.STLFields {
		d.Set(key, m[key])
	}
	if d.Riesgo == "" {
		d.Riesgo = models.RiskLow
	}
	d.Abonos = []models.Abono{}
	items, _ := m["abonos"].([]any)
	for _, item := range items {
		am, ok := item.(map[string]any)
		if !ok {
			d.Abonos = append(d.Abonos, models.Abono{})
			continue
		}
		var a models.Abono
		for _, field := range models.AbonoFields {
			a.Set(field, am[field])
		}
		d.Abonos = append(d.Abonos, a)
	}
	return d
}

// migrateLegalSupport rewrites older legal support shapes in place:
//  1. a single current-procedure pointer becomes a per-procedure map
//  2. per-procedure status strings become {status, subStatus} objects
//  3. the contacted flag becomes a contact counter
func migrateLegalSupport(m map[string]any) {
	if _, ok := m["procedureStatus"].(map[string]any); !ok {
		m["procedureStatus"] = procedureStatusFromPointer(m)
	}

	if procs, ok := m["procedureStatus"].(map[string]any); ok {
		for proc, v := range procs {
			label, isString := v.(string)
			if !isString {
				continue
			}
			switch models.ProcedureState(label) {
			case models.ProcedureLegacyInProgress, models.ProcedureBeingAdvised:
				procs[proc] = map[string]any{"status": string(models.ProcedureBeingAdvised), "subStatus": ""}
			case models.ProcedureCompleted:
				procs[proc] = map[string]any{"status": string(models.ProcedureCompleted)}
			default:
				procs[proc] = map[string]any{"status": string(models.ProcedureNotStarted)}
			}
		}
	}

	if contacted, ok := m["contactado"]; ok {
		if coerce.Number(m["contactCount"]) == 0 {
			if coerce.Bool(contacted) {
				m["contactCount"] = 1
			} else {
				m["contactCount"] = 0
			}
		}
		delete(m, "contactado")
	}
	for _, obsolete := range []string{"recibioAsesoria", "seguimientoRealizado", "enviarRecordatorio"} {
		delete(m, obsolete)
	}
}

// procedureStatusFromPointer marks procedures before the legacy pointer as
// completed, the pointed-to one with the legacy status string and the rest as
// not started.
func procedureStatusFromPointer(m map[string]any) map[string]any {
	current := -1
	if pointer := coerce.String(m["tramiteActual"]); pointer != "" {
		current = indexOf(models.LegacyProcedures, pointer)
	}
	legacyStatus := coerce.String(m["estatusTramite"])
	if legacyStatus == "" {
		legacyStatus = string(models.ProcedureNotStarted)
	}

	procs := make(map[string]any, len(models.LegalProcedures))
	for _, proc := range models.LegalProcedures {
		idx := indexOf(models.LegacyProcedures, proc)
		switch {
		case current != -1 && idx < current:
			procs[proc] = string(models.ProcedureCompleted)
		case current != -1 && idx == current:
			procs[proc] = legacyStatus
		default:
			procs[proc] = string(models.ProcedureNotStarted)
		}
	}
	return procs
}

func legalSupport(m map[string]any) *models.TLSData {
	d := &models.TLSData{ProcedureStatus: map[string]models.ProcedureStatus{}}
	for _, key := range models.TLSFields {
		d.Set(key, m[key])
	}
	if procs, ok := m["procedureStatus"].(map[string]any); ok {
		for proc, v := range procs {
			ps := models.ProcedureStatus{Status: models.ProcedureNotStarted}
			if obj, ok := v.(map[string]any); ok {
				if st := coerce.String(obj["status"]); st != "" {
					ps.Status = models.ProcedureState(st)
				}
				ps.SubStatus = coerce.String(obj["subStatus"])
			}
			d.ProcedureStatus[proc] = ps
		}
	}
	for _, proc := range models.LegalProcedures {
		if _, ok := d.ProcedureStatus[proc]; !ok {
			d.ProcedureStatus[proc] = models.ProcedureStatus{Status: models.ProcedureNotStarted}
		}
	}
	return d
}

// migrateDirectPromotion renames retired direct promotion fields in place.
// A rename only happens when the target field is absent.
func migrateDirectPromotion(m map[string]any) {
	if cita := coerce.String(m["citaInformacion"]); cita != "" && coerce.String(m["fechaCitaAsesoria"]) == "" {
		m["fechaCitaAsesoria"] = cita
		delete(m, "citaInformacion")
	}
	if contacted, ok := m["contactado"]; ok {
		if _, has := m["numeroContacto"]; !has {
			if coerce.Bool(contacted) {
				m["numeroContacto"] = 1
			} else {
				m["numeroContacto"] = 0
			}
			delete(m, "contactado")
		}
	}
	if advised, ok := m["recibioAsesoria"]; ok {
		if _, has := m["agendoCitaAsesoria"]; !has {
			m["agendoCitaAsesoria"] = coerce.Bool(advised)
			delete(m, "recibioAsesoria")
		}
	}
	delete(m, "seguimiento")
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
