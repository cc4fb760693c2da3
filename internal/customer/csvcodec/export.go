package csvcodec

import (
	"encoding/csv"
	"strings"

	"titling/internal/customer/coerce"
	"titling/internal/customer/models"
)

// BOM marks exports as UTF-8 for spreadsheet applications.
const BOM = "\uFEFF"

// Export renders customers as CSV text: a BOM, the header row and one row per
// customer, separated by "\n". Cells holding a delimiter, a quote or a line
// break are quoted.
func Export(customers []models.Customer) string {
	var b strings.Builder
	b.WriteString(BOM)
	w := csv.NewWriter(&b)
	_ = w.Write(Headers())
	for i := range customers {
		_ = w.Write(Row(&customers[i]))
	}
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

// Row returns the raw cells of one customer in header order.
func Row(c *models.Customer) []string {
	cells := make([]string, 0, len(Headers()))
	for _, key := range models.BaseFields {
		cells = append(cells, Cell(c.Get(key)))
	}
	for _, key := range models.BasicInfoFields {
		cells = append(cells, Cell(c.BasicInfo.Get(key)))
	}
	for _, def := range models.Catalog {
		cells = append(cells, strategyCells(c, def)...)
	}
	return cells
}

// strategyCells renders one strategy block, or empty placeholders of the same
// width when the customer has not engaged the strategy.
func strategyCells(c *models.Customer, def models.StrategyDefinition) []string {
	width := len(StrategyColumns(def))
	s, ok := c.Strategy(def.ID)
	if !ok {
		return make([]string, width)
	}

	cells := make([]string, 0, width)
	for _, f := range models.StrategyFields {
		cells = append(cells, Cell(s.Get(f)))
	}
	for _, key := range payloadKeys(def) {
		cells = append(cells, Cell(models.CustomDataValue(s.CustomData, key)))
	}
	return cells
}

// Cell renders a value as cell text: lists join with ";" and nil is empty.
func Cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ";")
	default:
		return coerce.String(v)
	}
}
