package assignment

import "errors"

var (
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrAssignmentNotOwned      = errors.New("assignment belongs to another worker")
	ErrInvalidStatusTransition = errors.New("assignment status does not allow this action")
)
