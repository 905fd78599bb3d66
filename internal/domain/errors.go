package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNoReports           = errors.New("no report files found")
	ErrNoOperator          = errors.New("operator is not configured (set 'operator' in taskbot.toml)")
	ErrInvalidSelection    = errors.New("invalid report selection")
	ErrRosterNotFound      = errors.New("roster file not found")
	ErrNotifierDisabled    = errors.New("notifier disabled (CHATWORK_API_TOKEN or chatwork.room_id not set)")
	ErrStoreNotInitialized = errors.New("task store not initialized")
	ErrConfigExists        = errors.New("config file already exists")
	ErrUnknownStoreBackend = errors.New("unknown store backend")
	ErrConfigNil           = errors.New("config is nil")
	ErrUnknownNotifyMode   = errors.New("unknown notify mode")
	ErrUnknownAIMode       = errors.New("unknown ai mode")
)
