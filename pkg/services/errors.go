package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrPresetNotFound   = errors.New("preset not found")
	ErrInvalidSweep     = errors.New("invalid sensitivity sweep")
	ErrInvalidCatalog   = errors.New("invalid catalog file")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrNonFiniteResult  = errors.New("factors produce a non-finite result")
)
