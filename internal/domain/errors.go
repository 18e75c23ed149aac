package domain

import "errors"

var (
	ErrInvalidType      = errors.New("invalid project type")
	ErrInvalidSizeClass = errors.New("invalid size class")
	ErrInvalidStratum   = errors.New("stratum must be between 1 and 6")
	ErrInvalidLotArea   = errors.New("lot area must be positive")
	ErrInvalidLandPrice = errors.New("land price per m2 must be positive")
	ErrInvalidRooms     = errors.New("rooms per unit must be at least 1")
	ErrEndBeforeStart   = errors.New("end date cannot be earlier than start date")
	ErrAlreadyFinalized = errors.New("project is already finalized")
)
