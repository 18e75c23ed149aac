package projects

import "errors"

var (
	ErrDuplicateID = errors.New("a project with this ID already exists")
)
