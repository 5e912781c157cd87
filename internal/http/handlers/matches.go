package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/mauv0809/squad-roster/internal/match"
	"github.com/mauv0809/squad-roster/internal/recorder"
	"github.com/mauv0809/squad-roster/internal/screenshot"
	"github.com/mauv0809/squad-roster/internal/stats"
)

const screenshotField = "screenshot"

// SubmitMatchHandler accepts a multipart form with the match fields and a screenshot file.
func SubmitMatchHandler(rec *recorder.Recorder, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, cleanup, ok := parseSubmission(w, r, maxUploadBytes)
		if !ok {
			return
		}
		defer cleanup()

		stored, err := rec.Submit(r.Context(), actorFrom(r), sub)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, stored)
	}
}

// EditMatchHandler replaces a record's fields. The screenshot file is optional.
func EditMatchHandler(rec *recorder.Recorder, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			RespondError(w, err)
			return
		}
		sub, cleanup, ok := parseSubmission(w, r, maxUploadBytes)
		if !ok {
			return
		}
		defer cleanup()

		updated, err := rec.Edit(r.Context(), actorFrom(r), id, sub)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func DeleteMatchHandler(rec *recorder.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			RespondError(w, err)
			return
		}
		deleted, err := rec.Delete(r.Context(), actorFrom(r), id)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, deleted)
	}
}

// MyMatchesHandler lists the caller's own records, newest first.
func MyMatchesHandler(records stats.StatsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := records.ListByPlayer(r.Context(), actorFrom(r).ID)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// ProofsHandler lists every record with its owner for the screenshot gallery.
func ProofsHandler(records stats.StatsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proofs, err := records.ListAll(r.Context())
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, proofs)
	}
}

// UploadHandler serves a stored screenshot.
func UploadHandler(files *screenshot.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		f, err := files.Open(name)
		if err != nil {
			RespondError(w, err)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			RespondError(w, err)
			return
		}
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

// parseSubmission reads the multipart form. It writes the error response itself and reports ok=false on failure.
func parseSubmission(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (sub recorder.Submission, cleanup func(), ok bool) {
	cleanup = func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds the size limit"})
			return sub, cleanup, false
		}
		RespondError(w, apperr.Invalid("", "malformed multipart form: %v", err))
		return sub, cleanup, false
	}
	cleanup = func() { r.MultipartForm.RemoveAll() }

	var err error
	if sub.Date, err = match.ParseDate(r.FormValue("date")); err != nil {
		RespondError(w, err)
		return sub, cleanup, false
	}
	if sub.Type, err = match.ParseType(r.FormValue("match_type")); err != nil {
		RespondError(w, err)
		return sub, cleanup, false
	}
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"kills", &sub.Kills},
		{"position", &sub.Position},
		{"damage", &sub.Damage},
		{"survival", &sub.Survival},
	} {
		if *field.dst, err = formInt(r, field.name); err != nil {
			RespondError(w, err)
			return sub, cleanup, false
		}
	}

	file, header, err := r.FormFile(screenshotField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		RespondError(w, apperr.Invalid(screenshotField, "could not read upload: %v", err))
		return sub, cleanup, false
	default:
		sub.Screenshot = &recorder.Upload{Filename: header.Filename, Body: file}
		formCleanup := cleanup
		cleanup = func() {
			closeFile(file)
			formCleanup()
		}
	}
	return sub, cleanup, true
}

// formInt parses an optional integer form value. Missing values count as zero.
func formInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(name, "%q is not a whole number", raw)
	}
	return v, nil
}

func closeFile(f multipart.File) {
	_ = f.Close()
}
