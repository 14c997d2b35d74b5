package cli

import (
	"aprd/internal/models"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Formatter interface {
	Statuses(statuses []models.PublishedStatus) (string, error)
	History(entries []models.RotationHistoryEntry) (string, error)
}

func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

type TableFormatter struct{}

func (f *TableFormatter) Statuses(statuses []models.PublishedStatus) (string, error) {
	if len(statuses) == 0 {
		return "No interfaces published.\n", nil
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INTERFACE\tSTATE\tSSID\tPASSWORD\tSEQ\tCLIENTS\tREMAINING\tREASON\tLAST ERROR")
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			st.Interface,
			st.State,
			dash(st.SSID),
			dash(st.Password),
			st.Sequence,
			clients(st.ClientCount),
			(time.Duration(st.SecondsUntilNext) * time.Second).String(),
			dash(string(st.LastRotationReason)),
			dash(st.Health.LastError),
		)
	}
	w.Flush()
	return buf.String(), nil
}

func (f *TableFormatter) History(entries []models.RotationHistoryEntry) (string, error) {
	if len(entries) == 0 {
		return "No rotations recorded.\n", nil
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tINTERFACE\tREASON\tSEQ\tCLIENTS\tPRIOR SSID")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Timestamp.Format(time.RFC3339),
			e.Interface,
			e.Reason,
			e.Sequence,
			clients(e.ClientCount),
			dash(e.PriorSSIDHash),
		)
	}
	w.Flush()
	return buf.String(), nil
}

type JSONFormatter struct{}

func (f *JSONFormatter) Statuses(statuses []models.PublishedStatus) (string, error) {
	return marshalJSON(statuses)
}

func (f *JSONFormatter) History(entries []models.RotationHistoryEntry) (string, error) {
	return marshalJSON(entries)
}

func marshalJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// YAMLFormatter goes through JSON so keys match the status file.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Statuses(statuses []models.PublishedStatus) (string, error) {
	return marshalYAML(statuses)
}

func (f *YAMLFormatter) History(entries []models.RotationHistoryEntry) (string, error) {
	return marshalYAML(entries)
}

func marshalYAML(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err = json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	b, err := yaml.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func clients(count *int) string {
	if count == nil {
		return "?"
	}
	return strconv.Itoa(*count)
}
