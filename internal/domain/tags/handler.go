package tags

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pet-adoption-store/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/tags", func(tr chi.Router) {
		// Lectura pública (catálogo)
		tr.Get("/", listTagsHandler(svc))
		tr.Get("/{tagID}", getTagHandler(svc))

		// Escritura solo ADMIN
		tr.Post("/", createTagHandler(svc))
		tr.Patch("/{tagID}", updateTagHandler(svc))
		tr.Delete("/{tagID}", deleteTagHandler(svc))
	})
}

type tagRequest struct {
	Name string `json:"name"`
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func createTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.Role.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req tagRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Create(r.Context(), req.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toTagResponse(t))
	}
}

func listTagsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]tagResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTagResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
		if err != nil {
			http.Error(w, "tag id must be numeric", http.StatusBadRequest)
			return
		}

		t, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "tag not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toTagResponse(t))
	}
}

func updateTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.Role.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
		if err != nil {
			http.Error(w, "tag id must be numeric", http.StatusBadRequest)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req tagRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Update(r.Context(), id, req.Name)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "tag not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toTagResponse(t))
	}
}

func deleteTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.Role.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
		if err != nil {
			http.Error(w, "tag id must be numeric", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			http.Error(w, "tag not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toTagResponse(t Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
