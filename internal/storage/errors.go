package storage

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInvalidID = errors.New("invalid id")
	ErrTxFailed  = errors.New("transaction failed")
)
