// SPDX-License-Identifier: MIT

package linreg

import "errors"

var (
	// ErrNoData is returned when the model or a conditional has no linked data.
	ErrNoData = errors.New("linreg: no data linked")

	// ErrDataShape is returned when X and Y disagree or a truth has the wrong shape.
	ErrDataShape = errors.New("linreg: inconsistent data shape")

	// ErrBadDataType is returned when LinkToData receives something other than *Data.
	ErrBadDataType = errors.New("linreg: data is not *linreg.Data")
)
