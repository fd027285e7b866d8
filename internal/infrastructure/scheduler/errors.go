package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrCleanupInProgress is returned by RunOnce while another sweep runs
	ErrCleanupInProgress = errors.New("archive cleanup already in progress")
)
