package model

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConflict            = errors.New("concurrent update conflict")
)
