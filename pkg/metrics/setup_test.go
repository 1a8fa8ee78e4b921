package metrics

import (
	"testing"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/stretchr/testify/assert"
)

type fakeStatsd struct {
	counts     map[string]int64
	histograms map[string]float64
	tags       []string
}

func (f *fakeStatsd) Count(name string, value int64, tags []string, rate float64) error {
	f.counts[name] += value
	f.tags = tags
	return nil
}

func (f *fakeStatsd) Gauge(name string, value float64, tags []string, rate float64) error {
	return nil
}

func (f *fakeStatsd) Histogram(name string, value float64, tags []string, rate float64) error {
	f.histograms[name] = value
	return nil
}

func TestSetup(t *testing.T) {
	t.Run("Disabled returns Noop", func(t *testing.T) {
		provider, err := Setup(config.MetricsConf{})
		if err != nil {
			t.Fatalf("Erro setup: %v", err)
		}

		if _, ok := provider.(*NoopProvider); !ok {
			t.Errorf("Esperado NoopProvider, recebido %T", provider)
		}
	})

	t.Run("Enabled returns Datadog", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog: config.DatadogConf{
				Enabled:   true,
				Addr:      "localhost:8125",
				Namespace: "mockserver.",
			},
		}

		provider, err := Setup(cfg)
		if err != nil {
			// statsd.New usa UDP; localhost costuma passar na criação do cliente
			t.Fatalf("Erro setup: %v", err)
		}

		if _, ok := provider.(*DatadogProvider); !ok {
			t.Errorf("Esperado DatadogProvider, recebido %T", provider)
		}
	})
}

func TestDatadogProvider(t *testing.T) {
	fake := &fakeStatsd{counts: map[string]int64{}, histograms: map[string]float64{}}
	provider := NewDatadogProvider(fake)

	assert.NoError(t, provider.Count(MetricRequests, 1, []string{"path:/ping"}))
	assert.NoError(t, provider.Count(MetricRequests, 1, []string{"path:/ping"}))
	assert.NoError(t, provider.Histogram(MetricDelay, 50, nil))

	assert.Equal(t, int64(2), fake.counts[MetricRequests])
	assert.Equal(t, []string{"path:/ping"}, fake.tags)
	assert.Equal(t, float64(50), fake.histograms[MetricDelay])
}
