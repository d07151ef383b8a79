package at45

// Logger is an optional logging hook for driver operations. The
// signatures match logrus, so a *logrus.Logger or *logrus.Entry can be
// passed directly, but any implementation works.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Option configures a Flash at construction time.
type Option func(*Flash)

// WithLogger attaches a logger. Without one the driver is silent.
func WithLogger(l Logger) Option {
	return func(f *Flash) {
		f.log = l
	}
}

// WithProbeAttempts overrides the identification retry budget used by
// Initialize. The default is 10.
func WithProbeAttempts(n int) Option {
	return func(f *Flash) {
		if n > 0 {
			f.probes = n
		}
	}
}
