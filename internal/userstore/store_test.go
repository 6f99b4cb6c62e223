package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"userdesk/internal/entity"
	"userdesk/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage keeps documents in memory and counts saves.
type memStorage struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
}

func newMemStorage() *memStorage {
	return &memStorage{docs: make(map[string][]byte)}
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, storage.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *memStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

// snapshotStorage serves one frozen document to every Load, emulating
// mutations that all read before any of them wrote.
type snapshotStorage struct {
	*memStorage
	snapshot []byte
}

func (s *snapshotStorage) Load(_ context.Context, _ string) ([]byte, error) {
	return append([]byte(nil), s.snapshot...), nil
}

type failingStorage struct{ err error }

func (f failingStorage) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStorage) Save(context.Context, string, []byte) error   { return f.err }

func seedDoc(t *testing.T, users ...entity.User) []byte {
	t.Helper()
	if users == nil {
		users = []entity.User{}
	}
	data, err := json.Marshal(users)
	require.NoError(t, err)
	return data
}

func newTestStore(t *testing.T, enforce bool, users ...entity.User) (*Store, *memStorage) {
	t.Helper()
	mem := newMemStorage()
	mem.docs[DefaultDocumentKey] = seedDoc(t, users...)
	store, err := New(mem, Options{EnforceUniqueUsername: enforce})
	require.NoError(t, err)
	return store, mem
}

func persisted(t *testing.T, mem *memStorage) []entity.User {
	t.Helper()
	var users []entity.User
	require.NoError(t, json.Unmarshal(mem.docs[DefaultDocumentKey], &users))
	return users
}

func input(name, username string) *entity.UserInput {
	return &entity.UserInput{
		Name:         name,
		Username:     username,
		Department:   "Eng",
		Position:     "Engineer",
		PhoneNumber:  "010-1234-5678",
		BusinessDate: "2024-03-01",
	}
}

func ids(users []entity.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestCreateAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection starts at one", func(t *testing.T) {
		store, _ := newTestStore(t, true)
		user, err := store.Create(ctx, input("Ann", "ann"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("gap uses max not count", func(t *testing.T) {
		store, mem := newTestStore(t, true, entity.User{ID: 1, Name: "A", Username: "a"}, entity.User{ID: 3, Name: "B", Username: "b"})
		user, err := store.Create(ctx, input("C", "c"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
		assert.Equal(t, []int64{1, 3, 4}, ids(persisted(t, mem)))
	})

	t.Run("deleted non-max id is not reissued", func(t *testing.T) {
		store, _ := newTestStore(t, true, entity.User{ID: 1, Name: "A", Username: "a"}, entity.User{ID: 2, Name: "B", Username: "b"})
		require.NoError(t, store.Delete(ctx, 1))
		user, err := store.Create(ctx, input("C", "c"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})
}

func TestCreateValidation(t *testing.T) {
	store, mem := newTestStore(t, true)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *entity.UserInput
	}{
		{name: "missing user", input: nil},
		{name: "blank name", input: input("  ", "ann")},
		{name: "blank username", input: input("Ann", "")},
		{name: "bad date", input: &entity.UserInput{Name: "Ann", Username: "ann", BusinessDate: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, http.StatusBadRequest, StatusCode(err))
		})
	}
	assert.Equal(t, 0, mem.saves)
}

func TestCreateUsernamePolicy(t *testing.T) {
	ctx := context.Background()
	existing := entity.User{ID: 1, Name: "Ann", Username: "ann"}

	t.Run("strict rejects duplicates", func(t *testing.T) {
		store, mem := newTestStore(t, true, existing)
		_, err := store.Create(ctx, input("Other Ann", "ann"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Equal(t, http.StatusConflict, StatusCode(err))
		assert.Equal(t, "User with username 'ann' already exists", err.Error())
		assert.Len(t, persisted(t, mem), 1)
	})

	t.Run("lenient accepts duplicates", func(t *testing.T) {
		store, mem := newTestStore(t, false, existing)
		user, err := store.Create(ctx, input("Other Ann", "ann"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		assert.Len(t, persisted(t, mem), 2)
	})
}

func TestUpdatePreservesPositionAndID(t *testing.T) {
	store, mem := newTestStore(t, true,
		entity.User{ID: 1, Name: "A", Username: "a"},
		entity.User{ID: 2, Name: "B", Username: "b"},
		entity.User{ID: 3, Name: "C", Username: "c"},
	)

	updated, err := store.Update(context.Background(), 2, input("Bee", "bee"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.ID)

	users := persisted(t, mem)
	assert.Equal(t, []int64{1, 2, 3}, ids(users))
	assert.Equal(t, "Bee", users[1].Name)
	assert.Equal(t, "bee", users[1].Username)
	assert.Equal(t, "Eng", users[1].Department)
}

func TestUpdateFailures(t *testing.T) {
	store, mem := newTestStore(t, true, entity.User{ID: 1, Name: "A", Username: "a"})
	ctx := context.Background()

	_, err := store.Update(ctx, 0, input("A", "a"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.Update(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.Update(ctx, 9, input("A", "a"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User with ID 9 not found", err.Error())

	assert.Equal(t, 0, mem.saves)
}

func TestDeleteAlwaysReportsMissingIDs(t *testing.T) {
	store, mem := newTestStore(t, true, entity.User{ID: 1, Name: "A", Username: "a"}, entity.User{ID: 2, Name: "B", Username: "b"})
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, 1))
	assert.Equal(t, []int64{2}, ids(persisted(t, mem)))

	err := store.Delete(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestDeleteRejectsNonPositiveIDWithoutTouchingStorage(t *testing.T) {
	store, mem := newTestStore(t, true, entity.User{ID: 1, Name: "A", Username: "a"})
	before := string(mem.docs[DefaultDocumentKey])

	for _, id := range []int64{0, -3} {
		err := store.Delete(context.Background(), id)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, 0, mem.saves)
	assert.Equal(t, before, string(mem.docs[DefaultDocumentKey]))
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, true)
	ctx := context.Background()

	created, err := store.Create(ctx, input("Ann", "ann"))
	require.NoError(t, err)

	users, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, *created, users[0])

	_, err = store.Update(ctx, created.ID, input("Annie", "annie"))
	require.NoError(t, err)
	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)

	require.NoError(t, store.Delete(ctx, created.ID))
	users, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSurfacesStorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document", func(t *testing.T) {
		store, err := New(newMemStorage(), Options{})
		require.NoError(t, err)
		_, err = store.List(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, storage.ErrNotExist)
	})

	t.Run("corrupt document", func(t *testing.T) {
		mem := newMemStorage()
		mem.docs[DefaultDocumentKey] = []byte("{not json")
		store, err := New(mem, Options{})
		require.NoError(t, err)
		_, err = store.List(ctx)
		assert.ErrorIs(t, err, ErrStorage)
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	})

	t.Run("backend failure on write", func(t *testing.T) {
		store, err := New(failingStorage{err: errors.New("disk full")}, Options{})
		require.NoError(t, err)
		_, err = store.Create(ctx, input("Ann", "ann"))
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestLostUpdateIsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	original := entity.User{ID: 1, Name: "A", Username: "a"}

	t.Run("delete completes last", func(t *testing.T) {
		mem := newMemStorage()
		snap := &snapshotStorage{memStorage: mem, snapshot: seedDoc(t, original)}
		store, err := New(snap, Options{})
		require.NoError(t, err)

		_, err = store.Update(ctx, 1, input("Updated", "a"))
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, 1))

		assert.Empty(t, persisted(t, mem))
	})

	t.Run("update completes last", func(t *testing.T) {
		mem := newMemStorage()
		snap := &snapshotStorage{memStorage: mem, snapshot: seedDoc(t, original)}
		store, err := New(snap, Options{})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, 1))
		_, err = store.Update(ctx, 1, input("Updated", "a"))
		require.NoError(t, err)

		users := persisted(t, mem)
		require.Len(t, users, 1)
		assert.Equal(t, "Updated", users[0].Name)
	})
}

func TestPersistedLayoutIsIndented(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	store, err := New(local, Options{DocumentKey: "users.json"})
	require.NoError(t, err)

	seeded, err := store.Seed(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, seeded)

	_, err = store.Create(context.Background(), input("Ann", "ann"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"id\": 1,\n    \"name\": \"Ann\""), text)
	assert.Contains(t, text, "\"phoneNumber\"")
	assert.Contains(t, text, "\"isAdmin\": false")
}
