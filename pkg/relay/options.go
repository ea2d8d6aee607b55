package relay

// Option configures a Cell at construction.
type Option func(*cellOptions)

type cellOptions struct {
	name      string
	observers Observers
}

// WithName sets the name reported to observers. Cells without a name
// report "cell-<id>".
func WithName(name string) Option {
	return func(o *cellOptions) {
		o.name = name
	}
}

// WithObserver attaches an Observer. May be given more than once; observers
// run in the order they were attached.
func WithObserver(obs Observer) Option {
	return func(o *cellOptions) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func applyOptions(opts []Option) cellOptions {
	var options cellOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
