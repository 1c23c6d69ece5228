package query

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat names a result rendering.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// Format renders the result in the requested format.
func (r *Result) Format(format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return r.FormatJSON()
	case FormatCSV:
		return r.FormatCSV()
	case FormatTable:
		return r.FormatTable(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatTable renders the result as an ASCII table.
func (r *Result) FormatTable() string {
	if len(r.Variables) == 0 || len(r.Bindings) == 0 {
		return fmt.Sprintf("No results (%d rows)\n", r.Count)
	}

	var sb strings.Builder

	widths := make([]int, len(r.Variables))
	for i, v := range r.Variables {
		widths[i] = len(v)
	}
	for _, binding := range r.Bindings {
		for i, v := range r.Variables {
			if len(binding[v]) > widths[i] {
				widths[i] = len(binding[v])
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	sb.WriteString(sep.String())

	sb.WriteString("|")
	for i, v := range r.Variables {
		sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], v))
	}
	sb.WriteString("\n")
	sb.WriteString(sep.String())

	for _, binding := range r.Bindings {
		sb.WriteString("|")
		for i, v := range r.Variables {
			sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], binding[v]))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(sep.String())

	sb.WriteString(fmt.Sprintf("%d rows\n", r.Count))
	return sb.String()
}

// FormatJSON renders the result as indented JSON.
func (r *Result) FormatJSON() (string, error) {
	type jsonResult struct {
		Variables []string            `json:"variables"`
		Bindings  []map[string]string `json:"bindings"`
		Count     int                 `json:"count"`
	}

	data, err := json.MarshalIndent(jsonResult{
		Variables: r.Variables,
		Bindings:  r.Bindings,
		Count:     r.Count,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatCSV renders the result as CSV with a header row.
func (r *Result) FormatCSV() (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(r.Variables); err != nil {
		return "", err
	}

	for _, binding := range r.Bindings {
		row := make([]string, len(r.Variables))
		for i, v := range r.Variables {
			row[i] = binding[v]
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}
