package common

import (
	"fmt"
	"strings"

	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
)

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// Failuref creates a failed result with a formatted message
func Failuref(format string, args ...interface{}) (*types.Result, error) {
	return Failure(fmt.Sprintf(format, args...))
}

// Domain packages prefix their sentinel errors with the package name.
var domainPrefixes = [...]string{"ndarray: ", "ops: ", "expr: ", "fitting: ", "tomo: "}

// DomainFailure surfaces a domain error as an in-band failure, dropping
// the package prefix so clients see the documented message forms
// ("shape mismatch: ...", "division by zero", "unbound symbol: ...").
func DomainFailure(err error) (*types.Result, error) {
	msg := err.Error()
	for _, prefix := range domainPrefixes {
		if strings.HasPrefix(msg, prefix) {
			msg = strings.TrimPrefix(msg, prefix)
			break
		}
	}
	return Failure(msg)
}
