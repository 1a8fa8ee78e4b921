package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por outro backend sem alterar o dispatch.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pelo servidor mock.
const (
	MetricRequests = "requests"
	MetricDelay    = "delay_ms"
	MetricRoutes   = "routes"
)
