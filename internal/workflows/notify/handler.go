// SPDX-License-Identifier: Apache-2.0

// Package notify reports workflow step events.
package notify

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/rs/zerolog"
)

// metadata keys copied from step reports into log events
var reportFields = []string{"result", "changes", "comment", "dry_run"}

// Handler defines callbacks for step events.
// A caller may install its own callbacks to forward events to a channel or another sink.
type Handler struct {
	StepStart      func(ctx context.Context, stp automa.Step, msg string, args ...interface{})
	StepCompletion func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{})
	StepFailure    func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{})
}

func defaultHandler() *Handler {
	return &Handler{
		StepStart: func(ctx context.Context, stp automa.Step, msg string, args ...interface{}) {
			logx.As().Info().
				Str("step_id", stp.Id()).
				Msgf(msg, args...)
		},
		StepCompletion: func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{}) {
			ev := logx.As().Info().
				Str("step_id", stp.Id()).
				Str("status", report.Status.String())
			withReportFields(ev, report).Msgf(msg, args...)
		},
		StepFailure: func(ctx context.Context, stp automa.Step, report *automa.Report, msg string, args ...interface{}) {
			ev := logx.As().Error().Err(report.Error).
				Str("step_id", stp.Id()).
				Str("status", report.Status.String())

			if first := FirstFailure(report); first != nil && first.Id != report.Id {
				ev.Str("first_error_step_id", first.Id)
				if first.Error != nil {
					ev.Str("first_error", first.Error.Error())
				}
			}

			withReportFields(ev, report).Msgf(msg, args...)
		},
	}
}

var handler = defaultHandler()

// FirstFailure walks the step reports depth first and returns the innermost report carrying an error.
// It returns report itself when no nested report failed, and nil for a nil report.
func FirstFailure(report *automa.Report) *automa.Report {
	if report == nil {
		return nil
	}

	for _, stepReport := range report.StepReports {
		if stepReport == nil || !stepReport.HasError() {
			continue
		}
		return FirstFailure(stepReport)
	}

	return report
}

func withReportFields(ev *zerolog.Event, report *automa.Report) *zerolog.Event {
	if report == nil || report.Metadata == nil {
		return ev
	}

	for _, key := range reportFields {
		if v, ok := report.Metadata[key]; ok {
			ev.Str(key, v)
		}
	}

	return ev
}

// SetDefault replaces the callbacks of the default handler.
// Nil callbacks in h leave the current ones in place.
func SetDefault(h *Handler) {
	if h == nil {
		return
	}

	if h.StepStart != nil {
		handler.StepStart = h.StepStart
	}

	if h.StepCompletion != nil {
		handler.StepCompletion = h.StepCompletion
	}

	if h.StepFailure != nil {
		handler.StepFailure = h.StepFailure
	}
}

// Reset restores the logging callbacks
func Reset() {
	handler = defaultHandler()
}

// As returns the current notification handler
func As() *Handler {
	return handler
}
