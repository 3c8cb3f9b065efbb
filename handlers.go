package parkings

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
	"github.com/theoremus-urban-solutions/parkings-aggregator/source"
)

type handler struct {
	reg *source.Registry
	log *zap.Logger
}

func newHandler(reg *source.Registry, log *zap.Logger) *handler {
	return &handler{reg: reg, log: log.Named("api")}
}

func (h *handler) listCities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, citiesPayload{Cities: h.reg.Cities()})
}

// getCity returns the city with its current facility snapshot. Pipeline
// failures with no cached snapshot degrade to an empty list rather than
// an error status: only a bad identifier is the caller's problem.
func (h *handler) getCity(w http.ResponseWriter, r *http.Request) {
	cityID := chi.URLParam(r, "cityID")
	city, ok := h.reg.City(cityID)
	if !ok {
		writeError(w, http.StatusNotFound, "city not found: "+cityID)
		return
	}

	facilities, err := h.reg.Facilities(r.Context(), cityID)
	degraded := false
	if err != nil {
		var serr *source.Error
		if !errors.As(err, &serr) {
			h.log.Error("unexpected registry failure", zap.String("city", cityID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		degraded = true
		facilities = []model.Facility{}
	}
	writeJSON(w, http.StatusOK, cityPayload{
		City:     city,
		Parkings: facilities,
		Degraded: degraded,
	})
}

func (h *handler) getFacility(w http.ResponseWriter, r *http.Request) {
	cityID := chi.URLParam(r, "cityID")
	facilityID := chi.URLParam(r, "facilityID")

	f, err := h.reg.Facility(r.Context(), cityID, facilityID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, f)
	case errors.Is(err, source.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		// no cached snapshot to answer from
		writeError(w, http.StatusServiceUnavailable, "parking data temporarily unavailable")
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload{
		Status: "ok",
		Cities: len(h.reg.Cities()),
	})
}
