package manager

import (
	"io/ioutil"

	log "github.com/sirupsen/logrus"
)

type options struct {
	ll       log.FieldLogger
	rollback bool
}

func defaultOptions() options {
	discard := log.New()
	discard.Out = ioutil.Discard
	return options{
		ll:       discard,
		rollback: true,
	}
}

// OptionFunc describes the function signature for methods which modify the
// manager options.
type OptionFunc func(*options)

// WithLogger sets a logger on the manager.
func WithLogger(ll log.FieldLogger) OptionFunc {
	return func(o *options) {
		o.ll = ll
	}
}

// WithRollback controls whether Create deletes a device it created when the
// configuration step fails. Rollback is on by default; with it off the bare
// device is left behind for inspection.
func WithRollback(rollback bool) OptionFunc {
	return func(o *options) {
		o.rollback = rollback
	}
}
