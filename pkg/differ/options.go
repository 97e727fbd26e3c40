package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithLocalName sets the header of the local value column.
func WithLocalName(name string) Option {
	return func(d *differ) {
		if name != "" {
			d.localName = name
		}
	}
}

// WithUnverifiable flags keys whose remote value cannot be read as issues.
// By default they are shown in rows flagged for other reasons but do not
// flag a row by themselves.
func WithUnverifiable(enabled bool) Option {
	return func(d *differ) {
		d.unverifiable = enabled
	}
}

// WithValues shows values in cells. When disabled every present value
// renders as a check mark.
func WithValues(enabled bool) Option {
	return func(d *differ) {
		d.values = enabled
	}
}
