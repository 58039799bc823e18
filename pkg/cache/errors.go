package cache

import "errors"

// ErrClosed is returned when a closed cache is used.
var ErrClosed = errors.New("cache closed")
