package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider onto client_golang collectors, so a
// *Runtime's scheduler gauges can be scraped directly. Instruments
// are created on demand by name, same as BasicProvider, and registered with
// the supplied registerer exactly once.
type PrometheusProvider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a Provider backed by the given
// registerer. Pass prometheus.DefaultRegisterer to use the global registry.
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	return &PrometheusProvider{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func sanitizeName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return promCounter{c.WithLabelValues()}
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: sanitizeName(name),
		Help: cfg.Description,
	}, nil)
	p.reg.MustRegister(vec)
	p.counters[name] = vec
	return promCounter{vec.WithLabelValues()}
}

func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.updowns[name]; ok {
		return promGauge{g.WithLabelValues()}
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: sanitizeName(name),
		Help: cfg.Description,
	}, nil)
	p.reg.MustRegister(vec)
	p.updowns[name] = vec
	return promGauge{vec.WithLabelValues()}
}

func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return promHistogram{h.WithLabelValues()}
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: sanitizeName(name),
		Help: cfg.Description,
	}, nil)
	p.reg.MustRegister(vec)
	p.histograms[name] = vec
	return promHistogram{vec.WithLabelValues()}
}

type promCounter struct{ c prometheus.Counter }

func (p promCounter) Add(n int64) { p.c.Add(float64(n)) }

// promGauge backs an UpDownCounter; client_golang gauges natively support
// negative Add, so no bookkeeping is needed beyond the wrapper.
type promGauge struct{ g prometheus.Gauge }

func (p promGauge) Add(n int64) { p.g.Add(float64(n)) }

type promHistogram struct{ h prometheus.Observer }

func (p promHistogram) Record(v float64) { p.h.Observe(v) }
