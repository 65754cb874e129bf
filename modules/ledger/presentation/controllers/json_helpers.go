package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/pipecrest/brokerage/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error onto the transport by its reason
// code. Message text stays generic; details never cross the boundary.
func writeError(w http.ResponseWriter, err error) {
	code := serrors.Code(err)
	if code == "" {
		code = serrors.CodePersistenceFailure
	}
	writeAPIError(w, serrors.HTTPStatus(code), code, err.Error())
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
