package csvcodec

import (
	"strings"
	"time"

	"titling/internal/customer/history"
	"titling/internal/customer/models"
	"titling/internal/customer/status"
)

// ApplyRow writes one update row onto c, routing every column by its name:
//
//	field                        customer field
//	basicInfo_<field>            basic information sheet
//	<strategy>_<field>           strategy engagement field
//	<strategy>_customData_<key>  strategy payload, including TLS procedure keys
//	<strategy>_abono_<n>_<field> loan installment
//
// Unknown columns are ignored. A strategy the customer lacks is activated
// only when one of its cells is non-empty. The pathway is recomputed and a
// bulk update entry is prepended to the history.
func ApplyRow(c *models.Customer, headers []string, row map[string]string, rec *history.Recorder) {
	now := rec.Now()
	for _, header := range headers {
		raw, ok := row[header]
		if !ok || header == IDColumn {
			continue
		}
		applyCell(c, header, raw, now)
	}

	c.PathwayToTitling = status.PathwayPercentage(c.ProcedureFlags())
	c.LastUpdate = models.Timestamp(now)
	c.History = history.Prepend(c.History, rec.BulkCSVUpdate())
}

func applyCell(c *models.Customer, header, raw string, now time.Time) {
	prefix, rest, compound := strings.Cut(header, "_")
	if !compound {
		c.Set(header, TypedValue(header, raw))
		return
	}
	if prefix == basicInfoPrefix {
		c.BasicInfo.Set(rest, TypedValue(header, raw))
		return
	}
	if _, ok := models.LookupStrategy(prefix); !ok || rest == "" {
		return
	}

	s, ok := c.Strategy(prefix)
	if !ok {
		if strings.TrimSpace(raw) == "" {
			return
		}
		c.Strategies = append(c.Strategies, models.NewCustomerStrategy(prefix, now))
		s = &c.Strategies[len(c.Strategies)-1]
	}
	if s.CustomData == nil {
		s.CustomData = models.NewCustomData(prefix)
	}

	value := TypedValue(header, raw)
	if key, ok := strings.CutPrefix(rest, customDataPart+"_"); ok {
		s.CustomData.Set(key, value)
		return
	}
	if _, _, ok := models.ParseAbonoKey(rest); ok {
		if _, isLoan := s.CustomData.(*models.STLData); isLoan {
			s.CustomData.Set(rest, value)
		}
		return
	}
	s.Set(rest, value)
}
