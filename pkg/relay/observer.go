package relay

// Observer is told about every value a cell accepts, before the cell's
// typed subscribers are notified. It is the generic half of the two-phase
// notification: metrics, logging, and enclosing-object change tracking
// attach here instead of subscribing.
type Observer interface {
	// CellChanged is called synchronously from Set and Update with the
	// cell's name and the newly accepted value.
	CellChanged(name string, value any)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(name string, value any)

// CellChanged calls f(name, value).
func (f ObserverFunc) CellChanged(name string, value any) {
	f(name, value)
}

// Observers fans a change out to several observers in order.
type Observers []Observer

// CellChanged notifies each non-nil observer in slice order.
func (o Observers) CellChanged(name string, value any) {
	for _, obs := range o {
		if obs != nil {
			obs.CellChanged(name, value)
		}
	}
}
