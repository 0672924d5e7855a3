package pets

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		// Catálogo público (browsing sin login)
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		// Gestión de inventario, solo ADMIN
		pr.Post("/", createPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name     string          `json:"name"`
	Species  string          `json:"species"`
	Price    decimal.Decimal `json:"price"`
	Age      int             `json:"age"`
	ImageURL string          `json:"image_url"`
	Status   string          `json:"status"`
	TagIDs   []int64         `json:"tag_ids"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string          `json:"name"`
	Species  *string          `json:"species"`
	Price    *decimal.Decimal `json:"price"`
	Age      *int             `json:"age"`
	ImageURL *string          `json:"image_url"`
	Status   *string          `json:"status"`
	TagIDs   *[]int64         `json:"tag_ids"`
}

type petResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Species  string          `json:"species"`
	Price    decimal.Decimal `json:"price"`
	Age      int             `json:"age"`
	ImageURL string          `json:"image_url"`
	Status   string          `json:"status"`
	Tags     []tagResponse   `json:"tags"`
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// createPetHandler godoc
// @Summary Alta de mascota (ADMIN)
// @Description Crea una mascota del inventario. Requiere rol ADMIN. Los tag_ids deben existir todos.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "some tags not found"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
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

		var req createPetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:     req.Name,
			Species:  req.Species,
			Price:    req.Price,
			Age:      req.Age,
			ImageURL: req.ImageURL,
			Status:   req.Status,
			TagIDs:   req.TagIDs,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
		if err != nil {
			http.Error(w, "pet id must be numeric", http.StatusBadRequest)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
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

		id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
		if err != nil {
			http.Error(w, "pet id must be numeric", http.StatusBadRequest)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), id, UpdateInput{
			Name:     req.Name,
			Species:  req.Species,
			Price:    req.Price,
			Age:      req.Age,
			ImageURL: req.ImageURL,
			Status:   req.Status,
			TagIDs:   req.TagIDs,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
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

		id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
		if err != nil {
			http.Error(w, "pet id must be numeric", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writePetError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrTagNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case ErrNotFound:
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:       p.ID,
		Name:     p.Name,
		Species:  p.Species,
		Price:    p.Price,
		Age:      p.Age,
		ImageURL: p.ImageURL,
		Status:   string(p.Status),
		Tags:     make([]tagResponse, 0, len(p.Tags)),
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, tagResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
