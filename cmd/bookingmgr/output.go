package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ddgos/booking-manager/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string {
	return string(*f)
}

func (f *outputFormat) Set(s string) error {
	switch outputFormat(s) {
	case outputTable, outputJSON, outputYAML:
		*f = outputFormat(s)
		return nil
	}
	return fmt.Errorf("must be one of %s, %s or %s", outputTable, outputJSON, outputYAML)
}

func (f *outputFormat) Type() string {
	return "format"
}

func renderResources(w io.Writer, format outputFormat, resources []model.Resource) error {
	if resources == nil {
		resources = []model.Resource{}
	}
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(resources, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resources); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderTable(w, resources)
	}
}

func renderTable(w io.Writer, resources []model.Resource) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "NAME")

	for _, r := range resources {
		t.Row(strconv.FormatInt(r.ID, 10), r.Name)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total resources: %d\n", len(resources))
	return err
}
