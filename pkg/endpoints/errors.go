package endpoints

import "errors"

var (
	ErrInvalidCatalog     = errors.New("endpoints: invalid catalog")
	ErrUnknownEnvironment = errors.New("endpoints: unknown environment")
)
