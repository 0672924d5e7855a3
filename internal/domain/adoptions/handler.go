package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/adoptions", func(ar chi.Router) {
		// Cualquier usuario autenticado adopta para sí mismo
		ar.Post("/adopt", adoptHandler(svc))
		ar.Get("/", listAdoptionsHandler(svc))
		ar.Get("/{adoptionID}", getAdoptionHandler(svc))

		// Correcciones administrativas (solo ADMIN)
		ar.Patch("/{adoptionID}", updateAdoptionHandler(svc))
		ar.Delete("/{adoptionID}", deleteAdoptionHandler(svc))
	})
}

type adoptRequest struct {
	PetID int64 `json:"pet_id"`
}

type updateAdoptionRequest struct {
	AdoptionDate *string `json:"adoption_date"` // RFC3339
}

type adoptionResponse struct {
	ID           int64              `json:"id"`
	AdoptionDate time.Time          `json:"adoption_date"`
	Pet          adoptedPetResponse `json:"pet"`
	User         adopterResponse    `json:"user"`
}

type adoptedPetResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Species  string          `json:"species"`
	Price    decimal.Decimal `json:"price"`
	Age      int             `json:"age"`
	ImageURL string          `json:"image_url"`
	Status   string          `json:"status"`
}

// adopterResponse expone solo los campos saneados del adoptante.
type adopterResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// adoptHandler godoc
// @Summary Adoptar una mascota
// @Description Crea la adopción para el caller autenticado y marca la mascota SOLD, en una sola transacción. Si la mascota no está AVAILABLE responde 400 indicando el status actual.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID numérico de usuario"
// @Param payload body adoptRequest true "pet_id de la mascota a adoptar"
// @Success 201 {object} adoptionResponse
// @Failure 400 {string} string "invalid json / pet no disponible"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /adoptions/adopt [post]
func adoptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req adoptRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json: pet_id is required and must be numeric", http.StatusBadRequest)
			return
		}
		if req.PetID <= 0 {
			http.Error(w, "pet_id is required and must be numeric", http.StatusBadRequest)
			return
		}

		// Siempre se adopta en nombre del caller; cualquier identidad
		// enviada en el body se rechaza por DisallowUnknownFields.
		a, err := svc.Adopt(r.Context(), req.PetID, claims)
		if err != nil {
			writeAdoptionError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAdoptionResponse(a))
	}
}

// listAdoptionsHandler godoc
// @Summary Listar adopciones
// @Description Lista filtrada por rol: ADMIN ve todas, USER solo las propias. Orden: más recientes primero.
// @Tags adoptions
// @Produce json
// @Success 200 {array} adoptionResponse
// @Failure 401 {string} string "unauthorized"
// @Router /adoptions [get]
func listAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.FindAll(r.Context(), claims)
		if err != nil {
			writeAdoptionError(w, err)
			return
		}

		out := make([]adoptionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAdoptionResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "adoptionID"), 10, 64)
		if err != nil {
			http.Error(w, "adoption id must be numeric", http.StatusBadRequest)
			return
		}

		a, err := svc.FindOne(r.Context(), id, claims)
		if err != nil {
			writeAdoptionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdoptionResponse(a))
	}
}

func updateAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "adoptionID"), 10, 64)
		if err != nil {
			http.Error(w, "adoption id must be numeric", http.StatusBadRequest)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAdoptionRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var in UpdateInput
		if req.AdoptionDate != nil {
			t, err := time.Parse(time.RFC3339, *req.AdoptionDate)
			if err != nil {
				http.Error(w, "adoption_date must be RFC3339", http.StatusBadRequest)
				return
			}
			in.AdoptionDate = &t
		}

		a, err := svc.Update(r.Context(), id, in, claims)
		if err != nil {
			writeAdoptionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdoptionResponse(a))
	}
}

func deleteAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "adoptionID"), 10, 64)
		if err != nil {
			http.Error(w, "adoption id must be numeric", http.StatusBadRequest)
			return
		}

		if err := svc.Remove(r.Context(), id, claims); err != nil {
			writeAdoptionError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeAdoptionError(w http.ResponseWriter, err error) {
	var notAvailable NotAvailableError
	switch {
	case errors.As(err, &notAvailable):
		http.Error(w, notAvailable.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPetNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "adoption not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAdoptionResponse(a Adoption) adoptionResponse {
	return adoptionResponse{
		ID:           a.ID,
		AdoptionDate: a.AdoptionDate,
		Pet: adoptedPetResponse{
			ID:       a.Pet.ID,
			Name:     a.Pet.Name,
			Species:  a.Pet.Species,
			Price:    a.Pet.Price,
			Age:      a.Pet.Age,
			ImageURL: a.Pet.ImageURL,
			Status:   string(a.Pet.Status),
		},
		User: adopterResponse{
			ID:       a.Adopter.ID,
			Email:    a.Adopter.Email,
			FullName: a.Adopter.FullName,
		},
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
