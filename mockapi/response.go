package mockapi

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// jsonResponse writes v the way the product backend does.
func (a *Api) jsonResponse(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warnf("Could not write %v response: %v", code, err)
	}
}

func (a *Api) jsonError(w http.ResponseWriter, msg string, code int) {
	a.jsonResponse(w, &errorResponse{Error: msg}, code)
}
