package usecase

import (
	"errors"
	"fmt"
)

// ErrPersistence indicates an unexpected infrastructure/repository failure
// inside a use case.
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// ErrTransient indicates a retryable store failure (timeout, deadlock,
// serialization conflict). Read paths retry once internally before surfacing
// it; write paths surface it immediately so the caller decides about retrying
// and no message is ever created twice.
var ErrTransient = errors.New("chat use case: temporary persistence failure")

// ErrNotFound indicates a referenced entity does not exist.
var ErrNotFound = errors.New("chat use case: not found")
