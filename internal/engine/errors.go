package engine

import (
	"errors"

	"github.com/tartampluch/go-bday/internal/config"
)

// Validation failures reported by the engine. Callers match them with errors.Is.
var (
	ErrEmptyName       = errors.New(config.ErrMsgEmptyName)
	ErrInvalidDate     = errors.New(config.ErrMsgInvalidDate)
	ErrInvalidTimezone = errors.New(config.ErrMsgInvalidTimezone)
	ErrInvalidArgument = errors.New(config.ErrMsgInvalidArgument)
	ErrInvalidRange    = errors.New(config.ErrMsgInvalidRange)
)
