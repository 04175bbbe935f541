package synergy

import "errors"

var (
	ErrInvalidCatalog = errors.New("invalid synergy catalog")
	ErrDuplicateCombo = errors.New("duplicate combo id")
	ErrUnknownCombo   = errors.New("unknown combo id")
)
