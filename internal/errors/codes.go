// Package errors provides structured error handling for the territory service.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Reference errors
	CodeUnknownTerritory Code = "UNKNOWN_TERRITORY"
	CodeUnknownFaction   Code = "UNKNOWN_FACTION"

	// Mutation errors
	CodeInvalidSource Code = "INVALID_SOURCE"
	CodeInvalidDelta  Code = "INVALID_DELTA"

	// Query errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidQuery Code = "INVALID_QUERY"

	// Storage errors
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidSource,
		CodeInvalidDelta,
		CodeInvalidQuery:
		return http.StatusBadRequest

	case CodeUnknownTerritory,
		CodeUnknownFaction,
		CodeNotFound:
		return http.StatusNotFound

	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
