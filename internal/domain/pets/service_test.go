package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestService_Create(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:     "  Milo ",
		Species:  "dog",
		Breed:    "mixed",
		WeightKg: 12.5,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Name != "Milo" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Species != SpeciesDog {
		t.Fatalf("expected dog, got %s", p.Species)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected timestamps = now")
	}
}

func TestService_Create_RejectsBadSpecies(t *testing.T) {
	svc := NewService(newTestRepo())

	for _, bad := range []string{"", "hamster", "Dog", "DOG"} {
		_, err := svc.Create(context.Background(), "owner-1", CreateInput{
			Name:    "Milo",
			Species: bad,
		})
		if err != ErrInvalidInput {
			t.Errorf("species %q: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestService_Create_RejectsNegativeWeight(t *testing.T) {
	svc := NewService(newTestRepo())
	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:     "Milo",
		Species:  "dog",
		WeightKg: -1,
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Update_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Milo", Species: "dog", Breed: "mixed", WeightKg: 12.5,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	newName := "Milo II"
	got, err := svc.Update(context.Background(), p.ID, UpdateInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Name != "Milo II" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
	// campos no enviados no se tocan
	if got.Breed != "mixed" || got.WeightKg != 12.5 {
		t.Fatalf("expected untouched fields, got %+v", got)
	}

	empty := "  "
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{Name: &empty}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	if _, err := svc.Update(context.Background(), "missing", UpdateInput{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
