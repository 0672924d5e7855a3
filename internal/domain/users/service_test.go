package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"pet-adoption-store/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID   map[int64]User
	nextID int64
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) (User, error) {
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return User{}, ErrEmailTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	return u, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Register / Authenticate
// -------------------------

func TestRegister_AlwaysCreatesUserRole(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "secret1",
		FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != auth.RoleUser {
		t.Fatalf("expected role USER, got %s", u.Role)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "secret1" || u.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) != nil {
		t.Fatal("hash does not match original password")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Password: "secret1", FullName: "A"}},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret1", FullName: "A"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "123", FullName: "A"}},
		{"missing name", RegisterInput{Email: "a@b.com", Password: "secret1"}},
		{"bad gender", RegisterInput{Email: "a@b.com", Password: "secret1", FullName: "A", Gender: "UNKNOWN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newTestRepo())

	in := RegisterInput{Email: "a@b.com", Password: "secret1", FullName: "A"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// mismo email con otra capitalización: también colisiona
	in.Email = "A@B.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "secret1",
		FullName: "A",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Authenticate(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Email != "a@b.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	// mismo error para password malo y para email desconocido
	if _, err := svc.Authenticate(context.Background(), "a@b.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@b.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

// -------------------------
// Alta administrada / Update
// -------------------------

func TestCreate_AdminCanSetRole(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Create(context.Background(), CreateInput{
		Email:    "root@b.com",
		Password: "secret1",
		FullName: "Root",
		Role:     "ADMIN",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Fatalf("expected role ADMIN, got %s", u.Role)
	}

	if _, err := svc.Create(context.Background(), CreateInput{
		Email:    "x@b.com",
		Password: "secret1",
		FullName: "X",
		Role:     "SUPERUSER",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "secret1",
		FullName: "A",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	name := "Alice Smith"
	updated, err := svc.Update(context.Background(), u.ID, UpdateInput{FullName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != name {
		t.Fatalf("expected name updated, got %q", updated.FullName)
	}
	if updated.Email != u.Email || updated.Role != u.Role {
		t.Fatalf("patch touched untargeted fields: %+v", updated)
	}

	role := "ADMIN"
	promoted, err := svc.Update(context.Background(), u.ID, UpdateInput{Role: &role})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != auth.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", promoted.Role)
	}

	if _, err := svc.Update(context.Background(), 999, UpdateInput{FullName: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
