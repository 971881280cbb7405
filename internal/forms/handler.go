package forms

import (
	"errors"
	"net/http"

	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// HandleSchema serves the JSON schema of the form named in the path.
func HandleSchema(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.forms.schema")
	defer span.End()

	name := mux.Vars(r)["form"]
	schema, err := Schema(name)
	if err != nil {
		if errors.Is(err, ErrUnknownForm) {
			http.Error(w, "unknown form", http.StatusNotFound)
			return
		}
		log.Errorf("schema %s: %s", name, err)
		http.Error(w, "schema failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, schema, http.StatusOK)
}

