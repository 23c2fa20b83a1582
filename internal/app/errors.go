package service

import "errors"

// Sentinel kinds for pipeline preflight errors.
var (
	ErrNoEntities   = errors.New("no entities to score")
	ErrNoGroupPairs = errors.New("no group pairs discovered")
)
