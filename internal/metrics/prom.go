// Package metrics exposes the controller's derived values as Prometheus
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"car-controller/internal/types"
)

var indicatorModes = []types.IndicatorMode{
	types.IndicatorIdle,
	types.IndicatorFlashing,
	types.IndicatorHazard,
}

// PromRecorder records vehicle, statistics and telemetry values.
type PromRecorder struct {
	speed       prometheus.Gauge
	accelerator prometheus.Gauge
	brake       prometheus.Gauge
	distance    prometheus.Gauge
	engine      prometheus.Gauge
	average     prometheus.Gauge
	warning     prometheus.Gauge
	queueDepth  prometheus.Gauge
	sent        prometheus.Counter
	indicator   *prometheus.GaugeVec
}

// NewPromRecorder registers the collectors on reg, or on the default
// registerer when reg is nil. Already registered collectors are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PromRecorder{}
	var err error
	gauge := func(name, help string) prometheus.Gauge {
		if err != nil {
			return nil
		}
		var g prometheus.Gauge
		g, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}))
		return g
	}

	r.speed = gauge("car_speed", "Current vehicle speed")
	r.accelerator = gauge("car_accelerator", "Accelerator actuator position (0-255)")
	r.brake = gauge("car_brake", "Brake actuator position (0-255)")
	r.distance = gauge("car_distance", "Odometer distance")
	r.engine = gauge("car_engine_on", "1 when the engine is on")
	r.average = gauge("car_average_speed", "Rolling average speed")
	r.warning = gauge("car_speed_warning", "1 when the average speed is above the warning threshold")
	r.queueDepth = gauge("car_telemetry_queue_depth", "Messages waiting in the telemetry queue")
	if err != nil {
		return nil, err
	}

	r.sent, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "car_telemetry_sent_total",
		Help: "Telemetry records written to the output channel",
	}))
	if err != nil {
		return nil, err
	}

	r.indicator, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "car_indicator_mode",
		Help: "1 for the active indicator mode",
	}, []string{"mode"}))
	if err != nil {
		return nil, err
	}
	r.RecordIndicatorMode(string(types.IndicatorIdle))

	return r, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

func (r *PromRecorder) RecordVehicle(speed, accelerator, brake uint8, distance uint16, engine bool) {
	r.speed.Set(float64(speed))
	r.accelerator.Set(float64(accelerator))
	r.brake.Set(float64(brake))
	r.distance.Set(float64(distance))
	r.engine.Set(boolValue(engine))
}

func (r *PromRecorder) RecordAverage(average uint8, warning bool) {
	r.average.Set(float64(average))
	r.warning.Set(boolValue(warning))
}

func (r *PromRecorder) RecordQueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}

func (r *PromRecorder) RecordTelemetrySent() {
	r.sent.Inc()
}

func (r *PromRecorder) RecordIndicatorMode(mode string) {
	for _, m := range indicatorModes {
		r.indicator.WithLabelValues(string(m)).Set(boolValue(string(m) == mode))
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
