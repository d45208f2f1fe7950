// Package errors provides the structured error taxonomy shared by printstudio
// services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeUnauthorized means no authenticated identity was present.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeProvisioningFailure means the tenant get-or-create step failed.
	CodeProvisioningFailure Code = "PROVISIONING_FAILURE"
	// CodePersistenceFailure means a downstream create/update call failed.
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	// CodeNetworkFailure means an identity or role-info fetch failed.
	CodeNetworkFailure Code = "NETWORK_FAILURE"

	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNetworkFailure:
		return http.StatusBadGateway
	case CodeProvisioningFailure, CodePersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
