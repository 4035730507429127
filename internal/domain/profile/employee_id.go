package profile

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	EmployeeIDPrefix = "DAG"
	employeeIDDigits = 5
	maxEmployeeIDNum = 99999
)

var employeeIDRegex = regexp.MustCompile(`^DAG[0-9]{5}$`)

// IsValidEmployeeID reports whether id has the DAG##### shape.
func IsValidEmployeeID(id string) bool {
	return employeeIDRegex.MatchString(id)
}

// FormatEmployeeID renders n as DAG followed by five zero-padded digits.
func FormatEmployeeID(n int) string {
	return fmt.Sprintf("%s%0*d", EmployeeIDPrefix, employeeIDDigits, n)
}

// NextEmployeeID returns max+1 over the well-formed ids in existing. Gaps are never reused.
func NextEmployeeID(existing []string) (string, error) {
	highest := 0
	for _, id := range existing {
		if !IsValidEmployeeID(id) {
			continue
		}
		n, err := strconv.Atoi(id[len(EmployeeIDPrefix):])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	if highest >= maxEmployeeIDNum {
		return "", ErrEmployeeIDExhausted
	}
	return FormatEmployeeID(highest + 1), nil
}
