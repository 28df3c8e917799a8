package models

import "errors"

// ErrNotFound is returned when an update targets an id that is not in its collection
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned for arguments no caller should send, such as negative days
var ErrInvalidInput = errors.New("invalid input")
