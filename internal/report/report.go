// Package report renders command results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected: text, json, yaml)", s)
	}
}

// Texter is implemented by reports with a human-readable layout.
type Texter interface {
	WriteText(w io.Writer) error
}

// Render writes v to w in the requested format. Text output requires v to
// implement Texter.
func Render(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		t, ok := v.(Texter)
		if !ok {
			return fmt.Errorf("%T has no text layout", v)
		}
		return t.WriteText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// MedianStep is the tracker state after one insertion.
type MedianStep struct {
	Value  float64 `json:"value" yaml:"value"`
	Median float64 `json:"median" yaml:"median"`
}

// MedianReport summarizes a run of the median command.
type MedianReport struct {
	Count  int          `json:"count" yaml:"count"`
	Median *float64     `json:"median" yaml:"median"`
	Steps  []MedianStep `json:"steps,omitempty" yaml:"steps,omitempty"`
}

func (r MedianReport) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(r.Steps) > 0 {
		fmt.Fprintln(tw, "#\tVALUE\tMEDIAN")
		for i, s := range r.Steps {
			fmt.Fprintf(tw, "%d\t%g\t%g\n", i+1, s.Value, s.Median)
		}
	}
	fmt.Fprintf(tw, "count\t%d\n", r.Count)
	if r.Median != nil {
		fmt.Fprintf(tw, "median\t%g\n", *r.Median)
	} else {
		fmt.Fprintln(tw, "median\t-")
	}
	return tw.Flush()
}

// PoolReport summarizes a worker pool run.
type PoolReport struct {
	State           string   `json:"state" yaml:"state"`
	Workers         int      `json:"workers" yaml:"workers"`
	QueueCapacity   int      `json:"queue_capacity" yaml:"queue_capacity"`
	Submitted       uint64   `json:"submitted" yaml:"submitted"`
	Completed       uint64   `json:"completed" yaml:"completed"`
	Failed          uint64   `json:"failed" yaml:"failed"`
	Rejected        uint64   `json:"rejected" yaml:"rejected"`
	Discarded       uint64   `json:"discarded" yaml:"discarded"`
	MedianTaskMs    *float64 `json:"median_task_ms" yaml:"median_task_ms"`
	ElapsedMs       int64    `json:"elapsed_ms" yaml:"elapsed_ms"`
	TerminatedClean bool     `json:"terminated_clean" yaml:"terminated_clean"`
}

func (r PoolReport) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "state\t%s\n", r.State)
	fmt.Fprintf(tw, "workers\t%d\n", r.Workers)
	fmt.Fprintf(tw, "queue capacity\t%d\n", r.QueueCapacity)
	fmt.Fprintf(tw, "submitted\t%d\n", r.Submitted)
	fmt.Fprintf(tw, "completed\t%d\n", r.Completed)
	fmt.Fprintf(tw, "failed\t%d\n", r.Failed)
	fmt.Fprintf(tw, "rejected\t%d\n", r.Rejected)
	fmt.Fprintf(tw, "discarded\t%d\n", r.Discarded)
	if r.MedianTaskMs != nil {
		fmt.Fprintf(tw, "median task\t%.2fms\n", *r.MedianTaskMs)
	} else {
		fmt.Fprintln(tw, "median task\t-")
	}
	fmt.Fprintf(tw, "elapsed\t%dms\n", r.ElapsedMs)
	fmt.Fprintf(tw, "terminated cleanly\t%t\n", r.TerminatedClean)
	return tw.Flush()
}
