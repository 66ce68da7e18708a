package gesture

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/srliao/streetfire/pkg/gesture"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
