package models

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrContention          = errors.New("store write contention")
	ErrQueueFull           = errors.New("queue is full")
	ErrAnalyzerUnavailable = errors.New("image analyzer unavailable")
)
