package metrics

import "errors"

// ErrObserveFailed is returned when a metric cannot be gathered.
var ErrObserveFailed = errors.New("metrics observe failed")
