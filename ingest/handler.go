// CLAUDE:SUMMARY chi routes for upload, listing, retrieval and deletion of parsed syllabi, plus a health probe.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/syllabus/idgen"
	"github.com/hazyhaar/syllabus/shield"
)

// multipart envelope allowance on top of the file ceiling
const formOverhead = 1 << 20

// Routes mounts the syllabus API on r.
func (ing *Ingester) Routes(r chi.Router) {
	r.Get("/health", ing.handleHealth)
	r.Route("/api/syllabi", func(r chi.Router) {
		r.Post("/", ing.handleUpload)
		r.Get("/", ing.handleList)
		r.Get("/{id}", ing.handleGet)
		r.Delete("/{id}", ing.handleDelete)
	})
}

func (ing *Ingester) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := shield.GetLogger(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, ing.maxBytes+formOverhead)

	if err := r.ParseMultipartForm(ing.maxBytes + formOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, fmt.Errorf("%w: request body over %d bytes", ErrSizeExceeded, mbe.Limit))
			return
		}
		writeErrorKind(w, http.StatusBadRequest, KindBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindBadRequest, "missing form field \"file\"")
		return
	}
	defer f.Close()

	// One byte over the ceiling is enough for preflight to reject.
	data, err := io.ReadAll(io.LimitReader(f, ing.maxBytes+1))
	if err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindBadRequest, "read upload: "+err.Error())
		return
	}

	res, err := ing.Ingest(r.Context(), fh.Filename, data, r.FormValue("institution"))
	if err != nil {
		if status, _ := classify(err); status == http.StatusInternalServerError {
			log.Error("upload failed", "file", fh.Filename, "error", err)
		}
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Deduplicated {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (ing *Ingester) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := ing.Store.List(r.Context(), q.Get("course_code"), limit, offset)
	if err != nil {
		shield.GetLogger(r.Context()).Error("list syllabi", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"syllabi": list, "count": len(list)})
}

func (ing *Ingester) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idgen.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, ErrNotFound)
		return
	}
	sy, err := ing.Store.Get(r.Context(), id)
	if err != nil {
		shield.GetLogger(r.Context()).Error("get syllabus", "id", id, "error", err)
		writeError(w, err)
		return
	}
	if sy == nil {
		writeError(w, ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sy)
}

func (ing *Ingester) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idgen.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, ErrNotFound)
		return
	}
	if err := ing.Store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ing *Ingester) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := ing.Store.DB().PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeErrorKind(w, status, kind, msg)
}

func writeErrorKind(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "kind": kind})
}
