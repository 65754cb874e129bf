package serrors

import "net/http"

// HTTPStatus maps a reason code to its transport status. Non-coded
// errors map to 500 so that internals never leak a misleading 4xx.
func HTTPStatus(code string) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeRoleInsufficient, CodeOutOfScope:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidTransition, CodeConfigConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
