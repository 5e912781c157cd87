package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/scoring"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

// dashboardPath is where clients are sent when a referenced entity is gone.
const dashboardPath = "/dashboard"

// maxJSONBody limits JSON request bodies.
const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// RespondError maps err onto a status code and writes it as JSON.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperr.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error(), "redirect": dashboardPath})
	case apperr.IsDenied(err):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		log.Error("Request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// RespondUnauthorized writes a 401 for requests without a usable session.
func RespondUnauthorized(w http.ResponseWriter) {
	respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("", "request body is required")
		}
		return apperr.Invalid("", "malformed JSON body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Invalid(fe.Field(), "failed the %q rule", fe.Tag())
		}
		return apperr.Invalid("", "%v", err)
	}
	return nil
}

// pathID parses an integer URL parameter.
func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(key, "%q is not a valid id", raw)
	}
	return id, nil
}

// actorFrom returns the authenticated actor. Routes using it sit behind the auth middleware.
func actorFrom(r *http.Request) auth.Actor {
	a, _ := auth.ActorFrom(r.Context())
	return a
}

// parseFilter reads match_type, start and end from the query string.
func parseFilter(q url.Values) (scoring.Filter, error) {
	var (
		f   scoring.Filter
		err error
	)
	if f.Type, err = match.ParseType(q.Get("match_type")); err != nil {
		return scoring.Filter{}, err
	}
	if s := q.Get("start"); s != "" {
		if f.Start, err = match.ParseDate(s); err != nil {
			return scoring.Filter{}, apperr.Invalid("start", "%q is not a YYYY-MM-DD date", s)
		}
	}
	if s := q.Get("end"); s != "" {
		if f.End, err = match.ParseDate(s); err != nil {
			return scoring.Filter{}, apperr.Invalid("end", "%q is not a YYYY-MM-DD date", s)
		}
	}
	return f, nil
}
