package conversation

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrHistoryDisabled = errors.New("history_disabled")
)
