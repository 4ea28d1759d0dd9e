package background

import "errors"

var ErrUnknownJob = errors.New("unknown job")
