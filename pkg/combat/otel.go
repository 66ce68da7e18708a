package combat

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/srliao/streetfire/pkg/combat"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
