// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import "errors"

// Errs collects the errors of a series of operations.
type Errs struct {
	Err error
}

// Errored returns true if an error has been recorded.
func (errs *Errs) Errored() bool {
	return errs.Err != nil
}

// Add records every non-nil error in [errs].
func (errs *Errs) Add(errors ...error) {
	for _, err := range errors {
		if err != nil {
			errs.Err = join(errs.Err, err)
		}
	}
}

func join(a, b error) error {
	if a == nil {
		return b
	}
	return errors.Join(a, b)
}
