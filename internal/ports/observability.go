package ports

// Observability groups logging and metric emission behind one injected
// surface so the core stays free of logger singletons.
type Observability interface {
	LogInfo(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)
	LogCritical(msg string, err error, fields ...Field)

	IncCounter(name string, v float64)
	ObserveLatency(name string, seconds float64)

	SetGauge(name string, v float64)
}

type Field struct {
	Key   string
	Value any
}
