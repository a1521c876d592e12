package hooks

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

const instrumentationName = "github.com/fyrsmithlabs/wellnessd/internal/hooks"

// MetricsSink records orchestration counters via OpenTelemetry.
type MetricsSink struct {
	meter      metric.Meter
	logger     *zap.Logger
	toolStarts metric.Int64Counter
	toolEnds   metric.Int64Counter
	handoffs   metric.Int64Counter
	errors     metric.Int64Counter
}

// NewMetricsSink creates a metrics sink using the global meter provider.
func NewMetricsSink(logger *zap.Logger) *MetricsSink {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &MetricsSink{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *MetricsSink) init() {
	var err error

	m.toolStarts, err = m.meter.Int64Counter(
		"wellnessd.orchestrator.tool_starts",
		metric.WithDescription("Tool invocations started, labeled by tool name"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		m.logger.Warn("failed to create tool starts counter", zap.Error(err))
	}

	m.toolEnds, err = m.meter.Int64Counter(
		"wellnessd.orchestrator.tool_ends",
		metric.WithDescription("Tool invocations completed successfully, labeled by tool name"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		m.logger.Warn("failed to create tool ends counter", zap.Error(err))
	}

	m.handoffs, err = m.meter.Int64Counter(
		"wellnessd.orchestrator.handoffs",
		metric.WithDescription("Routing authority transfers, labeled by source and target agent"),
		metric.WithUnit("{handoff}"),
	)
	if err != nil {
		m.logger.Warn("failed to create handoffs counter", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"wellnessd.orchestrator.errors",
		metric.WithDescription("Orchestration errors, labeled by stage (guardrail_input, tool, guardrail_output, handoff)"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

func (m *MetricsSink) OnToolStart(tool string, _ *session.Context) {
	if m.toolStarts != nil {
		m.toolStarts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tool", tool)))
	}
}

func (m *MetricsSink) OnToolEnd(tool string, _ string, _ *session.Context) {
	if m.toolEnds != nil {
		m.toolEnds.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tool", tool)))
	}
}

func (m *MetricsSink) OnHandoff(from, to string, _ *session.Context) {
	if m.handoffs != nil {
		m.handoffs.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
		))
	}
}

func (m *MetricsSink) OnError(stage, _ string, _ *session.Context) {
	if m.errors != nil {
		m.errors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}
