package services

// ServiceError adalah error domain yang di-map controller ke kode HTTP.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

var (
	ErrOrderNotFound            = &ServiceError{"order not found"}
	ErrFeedbackAlreadySubmitted = &ServiceError{"feedback already submitted for this order"}
	ErrInvalidFeedbackItem      = &ServiceError{"invalid feedback item"}
	ErrInvalidClaimRequest      = &ServiceError{"target and guest email are required and must differ"}
	ErrNoGuestOrders            = &ServiceError{"no orders found for guest email"}
)
