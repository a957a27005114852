package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidResetPolicy is returned for an LRU_RESET_POLICY other than "preserve" or "default"
	ErrInvalidResetPolicy = errors.New("invalid reset policy")

	// ErrInvalidLogging is returned when LRU_LOG_LEVEL or LRU_LOG_FORMAT cannot be parsed
	ErrInvalidLogging = errors.New("invalid logging configuration")
)
