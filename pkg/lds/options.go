package lds

import "go.uber.org/zap"

// DefaultMaxRecords is the highest count a one-byte instance count can hold.
const DefaultMaxRecords = 255

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger receiving advisory findings (Warn) and
// decode summaries (Debug). A nil logger keeps the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStrict turns every advisory finding into a fatal ErrStrictProfile.
func WithStrict(strict bool) Option {
	return func(d *Decoder) {
		d.strict = strict
	}
}

// WithMaxRecords bounds the number of instances a data group may declare.
// Values below 1 keep DefaultMaxRecords.
func WithMaxRecords(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxRecords = n
		}
	}
}
