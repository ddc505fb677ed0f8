package pets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo / store
// -------------------------

type testRepo struct {
	byID      map[string]Pet
	updateErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(_ context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Pet) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

// List solo entiende status + orden por nombre; el filtrado completo se testea en el adapter memory.
func (r *testRepo) List(_ context.Context, f ListFilter) ([]Pet, int, error) {
	all := make([]Pet, 0, len(r.byID))
	for _, p := range r.byID {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	if f.Offset >= total {
		return []Pet{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

type testStore struct {
	objects map[string][]byte
	deleted []string
}

func newTestStore() *testStore {
	return &testStore{objects: map[string][]byte{}}
}

func (s *testStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[key] = b
	return "http://cdn.test/" + key, nil
}

func (s *testStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func newTestService() (*Service, *testRepo, *testStore) {
	repo := newTestRepo()
	store := newTestStore()
	svc := NewService(repo, store, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, store
}

func mustCreate(t *testing.T, svc *Service, name string) Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), "admin-1", CreateInput{
		Name:        name,
		Species:     SpeciesDog,
		AgeMonths:   24,
		AdoptionFee: decimal.RequireFromString("50.555"),
	})
	require.NoError(t, err)
	return p
}

// -------------------------
// Tests
// -------------------------

func TestCreate_AppliesDefaults(t *testing.T) {
	svc, repo, _ := newTestService()

	p := mustCreate(t, svc, "  Firulais ")

	assert.Equal(t, "Firulais", p.Name)
	assert.Equal(t, SexUnknown, p.Sex)
	assert.Equal(t, SizeMedium, p.Size)
	assert.Equal(t, EnergyMedium, p.EnergyLevel)
	assert.Equal(t, StatusAvailable, p.Status)
	assert.Equal(t, "admin-1", p.CreatedBy)
	assert.True(t, p.AdoptionFee.Equal(decimal.RequireFromString("50.56")), "fee = %s", p.AdoptionFee)
	assert.Contains(t, repo.byID, p.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := map[string]CreateInput{
		"empty name":    {Name: " ", Species: SpeciesCat},
		"bad species":   {Name: "Michi", Species: "dragon"},
		"negative age":  {Name: "Michi", Species: SpeciesCat, AgeMonths: -1},
		"negative fee":  {Name: "Michi", Species: SpeciesCat, AdoptionFee: decimal.NewFromInt(-1)},
		"bad size":      {Name: "Michi", Species: SpeciesCat, Size: "huge"},
		"too long name": {Name: strings.Repeat("a", 101), Species: SpeciesCat},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, "admin-1", in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Create(ctx, "", CreateInput{Name: "Michi", Species: SpeciesCat})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_OnlyTouchesProvidedFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Toby")

	svc.now = func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }
	kids := true
	size := SizeLarge
	got, err := svc.Update(ctx, p.ID, UpdateInput{GoodWithKids: &kids, Size: &size})
	require.NoError(t, err)

	assert.Equal(t, "Toby", got.Name)
	assert.True(t, got.GoodWithKids)
	assert.Equal(t, SizeLarge, got.Size)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))

	bad := Status("lost")
	_, err = svc.Update(ctx, p.ID, UpdateInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", UpdateInput{GoodWithKids: &kids})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	svc, _, _ := newTestService()
	p := mustCreate(t, svc, "Luna")

	got, err := svc.SetStatus(context.Background(), p.ID, StatusAdopted)
	require.NoError(t, err)
	assert.Equal(t, StatusAdopted, got.Status)

	_, err = svc.SetStatus(context.Background(), p.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_Pagination(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		mustCreate(t, svc, n)
	}

	page, err := svc.List(ctx, ListFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].Name)

	page, err = svc.List(ctx, ListFilter{}, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPageSize, page.Limit)

	lo, hi := 10, 5
	_, err = svc.List(ctx, ListFilter{MinAgeMonths: &lo, MaxAgeMonths: &hi}, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, ListFilter{Sort: "random"}, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListAvailable_WalksAllPages(t *testing.T) {
	svc, repo, _ := newTestService()
	for i := 0; i < MaxPageSize+3; i++ {
		mustCreate(t, svc, "pet")
	}
	adopted := mustCreate(t, svc, "adopted")
	p := repo.byID[adopted.ID]
	p.Status = StatusAdopted
	repo.byID[adopted.ID] = p

	out, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, MaxPageSize+3)
}

func TestAttachImage_ReplacesPrevious(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Nala")

	first, err := svc.AttachImage(ctx, p.ID, "photo.JPG", "image/jpeg", bytes.NewReader([]byte("one")), 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ImageKey, "pets/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(first.ImageKey, ".jpg"))
	assert.Equal(t, "http://cdn.test/"+first.ImageKey, first.ImageURL)

	second, err := svc.AttachImage(ctx, p.ID, "photo.png", "image/png", bytes.NewReader([]byte("two")), 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageKey, second.ImageKey)
	assert.Equal(t, []string{first.ImageKey}, store.deleted)
	assert.NotContains(t, store.objects, first.ImageKey)
}

func TestAttachImage_CleansUpOnRepoFailure(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Nala")

	repo.updateErr = errors.New("db down")
	_, err := svc.AttachImage(ctx, p.ID, "a.png", "image/png", bytes.NewReader([]byte("x")), 1)
	require.Error(t, err)
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
}

func TestAttachImage_NoStorage(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)
	_, err := svc.AttachImage(context.Background(), "x", "a.png", "image/png", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDelete_RemovesImage(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	p := mustCreate(t, svc, "Rocky")
	p, err := svc.AttachImage(ctx, p.ID, "a.gif", "image/gif", bytes.NewReader([]byte("gif")), 3)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.NotContains(t, repo.byID, p.ID)
	assert.Contains(t, store.deleted, p.ImageKey)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestTags(t *testing.T) {
	p := Pet{Species: SpeciesCat, Size: SizeSmall, EnergyLevel: EnergyLow, Sex: SexFemale, AgeMonths: 100, GoodWithPets: true}
	tags := Tags(p)

	for _, want := range []string{"species:cat", "size:small", "energy:low", "sex:female", "age:senior", "good_with_pets"} {
		assert.Contains(t, tags, want)
	}
	assert.NotContains(t, tags, "good_with_kids")

	assert.Equal(t, "baby", AgeGroup(11))
	assert.Equal(t, "young", AgeGroup(12))
	assert.Equal(t, "adult", AgeGroup(36))
	assert.Equal(t, "senior", AgeGroup(96))

	assert.True(t, KnownTag("age:young"))
	assert.True(t, KnownTag("good_with_kids"))
	assert.False(t, KnownTag("species:dragon"))
	assert.False(t, KnownTag("species:"))
	assert.False(t, KnownTag("color:black"))
}
