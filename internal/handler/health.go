package handler

import "net/http"

// healthPayload is the fixed liveness body. Deliberately database-blind:
// the probe answers "is the process serving" and nothing more.
var healthPayload = map[string]string{
	"status":  "ok",
	"message": "server is running",
}

// HandleHealthcheck serves GET /healthcheck.
func HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload)
}
