package costs

import (
	"fmt"
	"strconv"

	"github.com/zgpcy/azure-cost-report/internal/azure"
)

// Row is one parsed cost record from a query response
type Row struct {
	Cost         float64
	Date         int // YYYYMMDD
	ResourceType string
	ChargeType   string
}

// columnIndexes maps the columns we consume to their positions in a response
type columnIndexes struct {
	cost         int
	date         int
	resourceType int
	chargeType   int // -1 when the query did not group by ChargeType
}

// resolveColumns locates the columns by name. Column order is not part of the
// API contract, so a missing required column is an error rather than a guess.
func resolveColumns(columns []azure.QueryColumn) (columnIndexes, error) {
	idx := columnIndexes{cost: -1, date: -1, resourceType: -1, chargeType: -1}

	for i, col := range columns {
		switch col.Name {
		case "Cost":
			idx.cost = i
		case "UsageDate":
			idx.date = i
		case "ResourceType":
			idx.resourceType = i
		case "ChargeType":
			idx.chargeType = i
		}
	}

	var missing []string
	if idx.cost == -1 {
		missing = append(missing, "Cost")
	}
	if idx.date == -1 {
		missing = append(missing, "UsageDate")
	}
	if idx.resourceType == -1 {
		missing = append(missing, "ResourceType")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("query response missing required columns: %v", missing)
	}

	return idx, nil
}

// GroupByDate parses a query response into rows keyed by YYYYMMDD date.
// A nil response or empty row set yields an empty map, which downstream
// zero-fills into $0.00 days. Rows may be shorter than the column set:
// cost and date positions are mandatory, a missing resource-type position
// reads as empty string and lands in Others.
func GroupByDate(props *azure.QueryProperties) (map[int][]Row, error) {
	byDate := make(map[int][]Row)
	if props == nil || len(props.Rows) == 0 {
		return byDate, nil
	}

	idx, err := resolveColumns(props.Columns)
	if err != nil {
		return nil, err
	}

	for i, raw := range props.Rows {
		if idx.cost >= len(raw) || idx.date >= len(raw) {
			return nil, fmt.Errorf("row %d has %d values, missing cost or date", i, len(raw))
		}

		cost, err := parseCost(raw[idx.cost])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		date, err := parseDate(raw[idx.date])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		row := Row{
			Cost:         cost,
			Date:         date,
			ResourceType: stringAt(raw, idx.resourceType),
		}
		if idx.chargeType != -1 {
			row.ChargeType = stringAt(raw, idx.chargeType)
		}

		byDate[date] = append(byDate[date], row)
	}

	return byDate, nil
}

// parseCost handles the numeric encodings JSON decoding can produce
func parseCost(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("unparsable cost value %q", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected cost type %T", v)
	}
}

// parseDate handles the date encodings JSON decoding can produce. The API
// returns UsageDate as an integer in YYYYMMDD form.
func parseDate(v interface{}) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case int:
		return val, nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("unparsable date value %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected date type %T", v)
	}
}

// stringAt reads an optional string position from a possibly short row
func stringAt(raw []interface{}, i int) string {
	if i >= len(raw) {
		return ""
	}
	return asString(raw[i])
}

func asString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
