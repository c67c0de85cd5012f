package entities

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrElementNotFound  = errors.New("element not found")
	ErrTimeout          = errors.New("timeout")
	ErrClickFailed      = errors.New("click failed")
)
