package game

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/srliao/streetfire/pkg/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
