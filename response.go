package parkings

import (
	"encoding/json"
	"net/http"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
)

type citiesPayload struct {
	Cities []model.City `json:"cities"`
}

type cityPayload struct {
	City     model.City       `json:"city"`
	Parkings []model.Facility `json:"parkings"`
	Degraded bool             `json:"degraded"`
}

type healthPayload struct {
	Status string `json:"status"`
	Cities int    `json:"cities"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
