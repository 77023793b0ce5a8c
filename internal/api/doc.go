// Package api handles incoming HTTP requests, request validation and
// response formatting. It translates HTTP concerns into calls on the
// enrollment, progression, catalog and generation services and maps their
// errors to status codes without leaking internal details.
package api
