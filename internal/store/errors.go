package store

import (
	"errors"

	"github.com/tartampluch/go-bday/internal/config"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNotFound  = errors.New(config.ErrMsgNotFound)
	ErrAmbiguous = errors.New(config.ErrMsgAmbiguous)
	ErrInvalid   = errors.New(config.ErrInvalidRecord)
)
