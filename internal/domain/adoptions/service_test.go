package adoptions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu     sync.Mutex
	pets   map[int64]pets.Status
	byID   map[int64]Adoption
	nextID int64
}

func newTestRepo() *testRepo {
	return &testRepo{
		pets: map[int64]pets.Status{},
		byID: map[int64]Adoption{},
	}
}

func (r *testRepo) addPet(id int64, status pets.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets[id] = status
}

func (r *testRepo) petStatus(id int64) pets.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pets[id]
}

func (r *testRepo) Adopt(ctx context.Context, petID, userID int64, at time.Time) (Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.pets[petID]
	if !ok {
		return Adoption{}, ErrPetNotFound
	}
	if status != pets.StatusAvailable {
		return Adoption{}, NotAvailableError{Status: status}
	}

	r.pets[petID] = pets.StatusSold
	r.nextID++
	a := Adoption{
		ID:           r.nextID,
		AdoptionDate: at,
		Pet:          pets.Pet{ID: petID, Status: pets.StatusSold},
		Adopter:      Adopter{ID: userID},
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return Adoption{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Adoption, error) {
	return r.list(func(Adoption) bool { return true }), nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID int64) ([]Adoption, error) {
	return r.list(func(a Adoption) bool { return a.Adopter.ID == userID }), nil
}

func (r *testRepo) list(keep func(Adoption) bool) []Adoption {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Adoption, 0)
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AdoptionDate.Equal(out[j].AdoptionDate) {
			return out[i].AdoptionDate.After(out[j].AdoptionDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *testRepo) Update(ctx context.Context, a Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Helpers
// -------------------------

var (
	admin = auth.Claims{UserID: 1, Role: auth.RoleAdmin}
	alice = auth.Claims{UserID: 2, Role: auth.RoleUser}
	bob   = auth.Claims{UserID: 3, Role: auth.RoleUser}
)

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

// -------------------------
// Adopt
// -------------------------

func TestAdopt_MarksPetSoldAndRecordsAdoption(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	a, err := svc.Adopt(context.Background(), 10, alice)
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if a.Adopter.ID != alice.UserID {
		t.Fatalf("expected adopter %d, got %d", alice.UserID, a.Adopter.ID)
	}
	if repo.petStatus(10) != pets.StatusSold {
		t.Fatalf("expected pet SOLD, got %s", repo.petStatus(10))
	}
	if a.AdoptionDate.IsZero() {
		t.Fatal("expected adoption date set")
	}
}

func TestAdopt_SoldPetFailsWithCurrentStatus(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusSold)
	svc := newTestService(repo)

	_, err := svc.Adopt(context.Background(), 10, alice)

	var notAvailable NotAvailableError
	if !errors.As(err, &notAvailable) {
		t.Fatalf("expected NotAvailableError, got %v", err)
	}
	if !strings.Contains(err.Error(), "SOLD") {
		t.Fatalf("expected message to include current status, got %q", err.Error())
	}

	// no debe quedar ningún registro
	all, _ := repo.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected 0 adoptions, got %d", len(all))
	}
}

func TestAdopt_UnknownPet(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if _, err := svc.Adopt(context.Background(), 99, alice); !errors.Is(err, ErrPetNotFound) {
		t.Fatalf("expected ErrPetNotFound, got %v", err)
	}
}

func TestAdopt_RequiresAuthenticatedCaller(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	if _, err := svc.Adopt(context.Background(), 10, auth.Claims{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}
	if _, err := svc.Adopt(context.Background(), 0, alice); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pet id 0, got %v", err)
	}
}

func TestAdopt_ConcurrentAdoptersExactlyOneWins(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := auth.Claims{UserID: int64(100 + i), Role: auth.RoleUser}
			_, errs[i] = svc.Adopt(context.Background(), 10, caller)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var notAvailable NotAvailableError
		if !errors.As(err, &notAvailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}

	all, _ := repo.ListAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 adoption record, got %d", len(all))
	}
}

// -------------------------
// Visibilidad
// -------------------------

func TestFindAll_RoleVisibility(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	repo.addPet(11, pets.StatusAvailable)
	svc := newTestService(repo)

	if _, err := svc.Adopt(context.Background(), 10, alice); err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if _, err := svc.Adopt(context.Background(), 11, bob); err != nil {
		t.Fatalf("adopt: %v", err)
	}

	all, err := svc.FindAll(context.Background(), admin)
	if err != nil {
		t.Fatalf("find all as admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected admin to see 2, got %d", len(all))
	}

	mine, err := svc.FindAll(context.Background(), alice)
	if err != nil {
		t.Fatalf("find all as user: %v", err)
	}
	if len(mine) != 1 || mine[0].Adopter.ID != alice.UserID {
		t.Fatalf("expected alice to see only her own adoption, got %+v", mine)
	}

	if _, err := svc.FindAll(context.Background(), auth.Claims{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}
}

func TestFindAll_NewestFirst(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	repo.addPet(11, pets.StatusAvailable)
	repo.addPet(12, pets.StatusAvailable)
	svc := newTestService(repo)

	base := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)}
	i := 0
	svc.now = func() time.Time { d := dates[i]; i++; return d }

	for _, petID := range []int64{10, 11, 12} {
		if _, err := svc.Adopt(context.Background(), petID, alice); err != nil {
			t.Fatalf("adopt pet %d: %v", petID, err)
		}
	}

	got, err := svc.FindAll(context.Background(), admin)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	for j := 1; j < len(got); j++ {
		if got[j].AdoptionDate.After(got[j-1].AdoptionDate) {
			t.Fatalf("expected newest first, got dates %v then %v", got[j-1].AdoptionDate, got[j].AdoptionDate)
		}
	}
}

func TestListForUser_SelfOrAdmin(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	if _, err := svc.Adopt(context.Background(), 10, alice); err != nil {
		t.Fatalf("adopt: %v", err)
	}

	if _, err := svc.ListForUser(context.Background(), alice.UserID, alice); err != nil {
		t.Fatalf("self list: %v", err)
	}
	if _, err := svc.ListForUser(context.Background(), alice.UserID, admin); err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if _, err := svc.ListForUser(context.Background(), alice.UserID, bob); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
}

func TestFindOne_OwnerOrAdminOnly(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	a, err := svc.Adopt(context.Background(), 10, alice)
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}

	if _, err := svc.FindOne(context.Background(), a.ID, alice); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.FindOne(context.Background(), a.ID, admin); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.FindOne(context.Background(), a.ID, bob); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.FindOne(context.Background(), 999, admin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// -------------------------
// Update / Remove
// -------------------------

func TestUpdate_AdminOnlyAndDateOnly(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	a, err := svc.Adopt(context.Background(), 10, alice)
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}

	newDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// el dueño (no admin) no puede editar
	if _, err := svc.Update(context.Background(), a.ID, UpdateInput{AdoptionDate: &newDate}, alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner, got %v", err)
	}

	// un tercero tampoco: mismo error que al leer
	if _, err := svc.Update(context.Background(), a.ID, UpdateInput{AdoptionDate: &newDate}, bob); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{AdoptionDate: &newDate}, admin)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !updated.AdoptionDate.Equal(newDate) {
		t.Fatalf("expected date %v, got %v", newDate, updated.AdoptionDate)
	}

	// patch vacío = no-op, devuelve el estado actual
	same, err := svc.Update(context.Background(), a.ID, UpdateInput{}, admin)
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if !same.AdoptionDate.Equal(newDate) {
		t.Fatalf("noop update changed date: %v", same.AdoptionDate)
	}

	var zero time.Time
	if _, err := svc.Update(context.Background(), a.ID, UpdateInput{AdoptionDate: &zero}, admin); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero date, got %v", err)
	}
}

func TestRemove_AdminOnlyAndPetStaysSold(t *testing.T) {
	repo := newTestRepo()
	repo.addPet(10, pets.StatusAvailable)
	svc := newTestService(repo)

	a, err := svc.Adopt(context.Background(), 10, alice)
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}

	if err := svc.Remove(context.Background(), a.ID, alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner, got %v", err)
	}

	if err := svc.Remove(context.Background(), a.ID, admin); err != nil {
		t.Fatalf("admin remove: %v", err)
	}

	if _, err := svc.FindOne(context.Background(), a.ID, admin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// borrar el registro no devuelve la mascota al inventario
	if repo.petStatus(10) != pets.StatusSold {
		t.Fatalf("expected pet to stay SOLD after remove, got %s", repo.petStatus(10))
	}

	if err := svc.Remove(context.Background(), a.ID, admin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated remove, got %v", err)
	}
}
