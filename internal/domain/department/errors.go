package department

import "errors"

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrManagerNotFound      = errors.New("manager profile not found")
)
