package config

import (
	"github.com/knadh/koanf/v2"

	"github.com/rtcchoir/choirdesk/internal/observability"
)

func LoadObservabilityConfig(config *koanf.Koanf) observability.Config {
	serviceName := config.String("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "choirdesk"
	}

	environment := config.String("APP_ENV")
	if environment == "" {
		environment = "development"
	}

	return observability.Config{
		ServiceName:  serviceName,
		Environment:  environment,
		OtelEndpoint: config.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelHeaders:  config.String("OTEL_EXPORTER_OTLP_HEADERS"),
	}
}
