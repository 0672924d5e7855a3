package users

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pet-adoption-store/internal/domain/adoptions"
	"pet-adoption-store/internal/middleware"
	"pet-adoption-store/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer, adoptionsSvc *adoptions.Service) {
	// Identity provider: registro y login públicos
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc, issuer))
	})

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))            // ADMIN
		ur.Post("/", createUserHandler(svc))          // ADMIN
		ur.Get("/{userID}", getUserHandler(svc, adoptionsSvc)) // self o ADMIN
		ur.Patch("/{userID}", updateUserHandler(svc)) // self o ADMIN
		ur.Delete("/{userID}", deleteUserHandler(svc)) // ADMIN
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	FullName *string `json:"full_name"`
	Gender   *string `json:"gender"`
	Password *string `json:"password"`
	Role     *string `json:"role"` // solo ADMIN
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// userDetailResponse agrega el historial de adopciones (con el pet de
// cada recibo) al perfil.
type userDetailResponse struct {
	userResponse
	Adoptions []adoptionSummary `json:"adoptions"`
}

type adoptionSummary struct {
	ID           int64              `json:"id"`
	AdoptionDate time.Time          `json:"adoption_date"`
	Pet          adoptedPetSummary  `json:"pet"`
}

type adoptedPetSummary struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Species string          `json:"species"`
	Price   decimal.Decimal `json:"price"`
	Status  string          `json:"status"`
}

// registerHandler godoc
// @Summary Registro de cuenta
// @Description Crea una cuenta con rol USER (el registro público nunca crea admins).
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "invalid input"
// @Failure 409 {string} string "email already exists"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req registerRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Gender:   req.Gender,
		})
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler godoc
// @Summary Login
// @Description Valida credenciales y devuelve un JWT firmado (sub, email, role) más el perfil saneado.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if issuer == nil {
			// Modo dev sin secret: identidad vía X-Debug-User-ID
			http.Error(w, "token issuer not configured", http.StatusServiceUnavailable)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req loginRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, expiresAt, err := issuer.Issue(r.Context(), auth.Claims{
			UserID: u.ID,
			Email:  u.Email,
			Role:   u.Role,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			AccessToken: token,
			ExpiresAt:   expiresAt,
			User:        toUserResponse(u),
		})
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
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

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
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

		var req createUserRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Gender:   req.Gender,
			Role:     req.Role,
		})
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func getUserHandler(svc *Service, adoptionsSvc *adoptions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "user id must be numeric", http.StatusBadRequest)
			return
		}

		if !claims.Role.IsAdmin() && claims.UserID != id {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		u, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		history, err := adoptionsSvc.ListForUser(r.Context(), id, claims)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := userDetailResponse{
			userResponse: toUserResponse(u),
			Adoptions:    make([]adoptionSummary, 0, len(history)),
		}
		for _, a := range history {
			out.Adoptions = append(out.Adoptions, adoptionSummary{
				ID:           a.ID,
				AdoptionDate: a.AdoptionDate,
				Pet: adoptedPetSummary{
					ID:      a.Pet.ID,
					Name:    a.Pet.Name,
					Species: a.Pet.Species,
					Price:   a.Pet.Price,
					Status:  string(a.Pet.Status),
				},
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || !claims.Present() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "user id must be numeric", http.StatusBadRequest)
			return
		}

		if !claims.Role.IsAdmin() && claims.UserID != id {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateUserRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Escalar rol es privilegio de ADMIN
		if req.Role != nil && !claims.Role.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		u, err := svc.Update(r.Context(), id, UpdateInput{
			FullName: req.FullName,
			Gender:   req.Gender,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
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

		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "user id must be numeric", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrEmailTaken:
		http.Error(w, err.Error(), http.StatusConflict)
	case ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Gender:    string(u.Gender),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
