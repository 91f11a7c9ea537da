package models

import "errors"

// Custom errors
var (
	ErrIdenticalTeams  = errors.New("home and away team must differ")
	ErrMissingTeam     = errors.New("both team names are required")
	ErrUnknownCategory = errors.New("unknown outcome category")
	ErrInvalidPrice    = errors.New("price must be greater than 1.0")
	ErrNoEncounters    = errors.New("no direct encounters found")
	ErrPlayNotFound    = errors.New("play not found")
	ErrInvalidID       = errors.New("invalid ID format")
)
