package persist

import "errors"

var (
	ErrSlotNotFound = errors.New("persist: slot not found")
	ErrEmptyName    = errors.New("persist: empty slot name")
)
