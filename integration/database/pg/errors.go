package pg

import "errors"

var (
	ErrEmptyConnectionString    = errors.New("empty postgres connection string")
	ErrFailedToParseDBConfig    = errors.New("failed to parse postgres config")
	ErrFailedToOpenDBConnection = errors.New("failed to open postgres connection")
	ErrHealthcheckFailed        = errors.New("postgres healthcheck failed")
	ErrPayloadTooLarge          = errors.New("postgres notify payload too large")
	ErrNotifyFailed             = errors.New("postgres notify failed")
	ErrListenFailed             = errors.New("postgres listen failed")
	ErrListenerAlreadyStarted   = errors.New("postgres listener already started")
	ErrListenerNotStarted       = errors.New("postgres listener not started")
	ErrBeginTx                  = errors.New("failed to begin postgres transaction")
	ErrCommitTx                 = errors.New("failed to commit postgres transaction")
)
