package services

// Service errors
var (
	ErrScoreRejected     = &ServiceError{Message: "referee score was rejected and must be re-submitted"}
	ErrEmptyReason       = &ServiceError{Message: "rejection reason cannot be empty"}
	ErrInvalidPin        = &ServiceError{Message: "PIN code is not registered"}
	ErrInvalidRound      = &ServiceError{Message: "round number must be positive"}
	ErrMissingRefereeID  = &ServiceError{Message: "referee id cannot be empty"}
	ErrDuplicateTeamName = &ServiceError{Message: "a team with that name already exists"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
