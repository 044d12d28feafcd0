package formats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/passgen/types"
)

// JSON writes plans and reports as indented JSON documents
var JSON = &SummaryFormat{
	Name: "json",
	Plan: func(w io.Writer, plan *types.Plan) error {
		return encodeJSON(w, newPlanView(plan))
	},
	Report: func(w io.Writer, report *types.Report) error {
		return encodeJSON(w, newReportView(report))
	},
}

// YAML writes plans and reports as YAML documents
var YAML = &SummaryFormat{
	Name: "yaml",
	Plan: func(w io.Writer, plan *types.Plan) error {
		return encodeYAML(w, newPlanView(plan))
	},
	Report: func(w io.Writer, report *types.Report) error {
		return encodeYAML(w, newReportView(report))
	},
}

// planView is the serialized shape of a Plan. Big integers are carried as
// decimal strings so totals beyond 64 bits survive.
type planView struct {
	Positions      []int   `json:"positions" yaml:"positions"`
	Total          string  `json:"total" yaml:"total"`
	EstimatedBytes string  `json:"estimated_bytes" yaml:"estimated_bytes"`
	AverageLength  float64 `json:"average_length" yaml:"average_length"`
	Exact          bool    `json:"exact" yaml:"exact"`
	Samples        int     `json:"samples" yaml:"samples"`
	Workers        int     `json:"workers" yaml:"workers"`
	Output         string  `json:"output,omitempty" yaml:"output,omitempty"`
}

type reportView struct {
	RunID          string   `json:"run_id" yaml:"run_id"`
	Count          int64    `json:"count" yaml:"count"`
	Workers        int      `json:"workers" yaml:"workers"`
	ElapsedSeconds float64  `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Output         string   `json:"output,omitempty" yaml:"output,omitempty"`
	OutputBytes    int64    `json:"output_bytes" yaml:"output_bytes"`
	Warnings       []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func newPlanView(plan *types.Plan) planView {
	v := planView{
		AverageLength: plan.Estimate.AverageLength,
		Exact:         plan.Estimate.Exact,
		Samples:       plan.Estimate.Samples,
		Workers:       plan.Workers,
		Output:        plan.OutputPath,
	}
	if plan.RuleSet != nil {
		v.Positions = plan.RuleSet.Cardinalities()
	}
	if plan.Estimate.Total != nil {
		v.Total = plan.Estimate.Total.String()
	}
	if plan.Estimate.Bytes != nil {
		v.EstimatedBytes = plan.Estimate.Bytes.String()
	}
	return v
}

func newReportView(report *types.Report) reportView {
	return reportView{
		RunID:          report.RunID,
		Count:          report.Count,
		Workers:        report.Workers,
		ElapsedSeconds: report.Elapsed.Seconds(),
		Output:         report.OutputPath,
		OutputBytes:    report.OutputBytes,
		Warnings:       report.Warnings,
	}
}

func encodeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
