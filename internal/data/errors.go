package data

import "errors"

// Shared sentinel errors for the job store.
var (
	ErrJobNotFound  = errors.New("job not found")
	ErrDuplicateJob = errors.New("job already exists")
)
