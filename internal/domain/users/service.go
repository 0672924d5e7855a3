package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pet-adoption-store/internal/ports/auth"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 10

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Gender   string
}

// Register crea una cuenta de autoservicio.
// El rol es siempre USER: el registro público nunca crea admins.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return User{}, ErrInvalidInput
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return User{}, ErrInvalidInput
	}

	gender, err := parseGender(in.Gender)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Gender:       gender,
		Role:         auth.RoleUser,
		CreatedAt:    s.now(),
	})
}

// Authenticate valida credenciales y devuelve el usuario.
// Devuelve ErrInvalidCredentials tanto para email desconocido como para
// password incorrecto, sin distinguirlos.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

type CreateInput struct {
	Email    string
	Password string
	FullName string
	Gender   string
	Role     string
}

// Create es el alta administrada (un admin puede fijar el rol).
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	u, err := s.Register(ctx, RegisterInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Gender:   in.Gender,
	})
	if err != nil {
		return User{}, err
	}

	role := auth.Role(strings.TrimSpace(in.Role))
	if role != "" && role != auth.RoleUser {
		if !role.Valid() {
			return User{}, ErrInvalidInput
		}
		u.Role = role
		if err := s.repo.Update(ctx, u); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	FullName *string
	Gender   *string
	Password *string
	Role     *string
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return User{}, ErrInvalidInput
		}
		u.FullName = name
	}
	if in.Gender != nil {
		gender, err := parseGender(*in.Gender)
		if err != nil {
			return User{}, err
		}
		u.Gender = gender
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return User{}, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Role != nil {
		role := auth.Role(strings.TrimSpace(*in.Role))
		if !role.Valid() {
			return User{}, ErrInvalidInput
		}
		u.Role = role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseGender(raw string) (Gender, error) {
	switch Gender(strings.ToUpper(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther, "":
		return GenderOther, nil
	default:
		return "", ErrInvalidInput
	}
}
