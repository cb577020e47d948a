package metrics

import "github.com/MathiasVDS1/ProjectManagement/core/factory"

// Config defines settings for metrics sinks. PrometheusPort, when set,
// makes the service expose the default registry over HTTP.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusPort string                 `json:"prometheus_port"`
}
