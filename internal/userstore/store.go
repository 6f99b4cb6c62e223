package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"userdesk/internal/entity"
	"userdesk/internal/entity/converter"
	"userdesk/internal/storage"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultDocumentKey names the persisted collection inside the storage backend.
	DefaultDocumentKey = "users.json"

	resourceName = "User"
)

// Options configures a Store.
type Options struct {
	DocumentKey string
	// EnforceUniqueUsername rejects creates whose username already exists.
	EnforceUniqueUsername bool
}

// Store owns the canonical user collection. Every operation loads the whole
// document, mutates it in memory and writes the whole document back. There
// is no locking: interleaved mutations are last-writer-wins.
type Store struct {
	storage       storage.Storage
	key           string
	enforceUnique bool
	validate      *validator.Validate
}

// New creates a Store over the given storage backend.
func New(backend storage.Storage, opts Options) (*Store, error) {
	if backend == nil {
		return nil, errors.New("userstore: storage is nil")
	}
	key := strings.TrimSpace(opts.DocumentKey)
	if key == "" {
		key = DefaultDocumentKey
	}
	return &Store{
		storage:       backend,
		key:           key,
		enforceUnique: opts.EnforceUniqueUsername,
		validate:      newValidator(),
	}, nil
}

// DocumentKey returns the key the collection is stored under.
func (s *Store) DocumentKey() string { return s.key }

// EnforcesUniqueUsername reports the active username policy.
func (s *Store) EnforcesUniqueUsername() bool { return s.enforceUnique }

// List returns the whole collection in persisted order. A missing or corrupt
// document is a storage error, never an empty list.
func (s *Store) List(ctx context.Context) ([]entity.User, error) {
	return s.load(ctx)
}

// Get returns a single user.
func (s *Store) Get(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, NewValidationError("User ID is required", map[string]any{"id": id})
	}
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := entity.IndexOfUser(users, id)
	if idx < 0 {
		return nil, NewNotFoundError(resourceName, id)
	}
	user := users[idx]
	return &user, nil
}

// Create assigns id max+1 (1 when empty), appends and persists.
func (s *Store) Create(ctx context.Context, input *entity.UserInput) (*entity.User, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.enforceUnique && usernameTaken(users, input.Username) {
		return nil, NewDuplicateError(resourceName, "username", input.Username)
	}

	user := converter.UserFromInput(entity.NextUserID(users), input)
	users = append(users, user)
	if err := s.persist(ctx, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces every field of the user in place; the id is kept from the
// argument, never taken from the input.
func (s *Store) Update(ctx context.Context, id int64, input *entity.UserInput) (*entity.User, error) {
	if id <= 0 {
		return nil, NewValidationError("User ID is required", map[string]any{"id": id})
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := entity.IndexOfUser(users, id)
	if idx < 0 {
		return nil, NewNotFoundError(resourceName, id)
	}

	user := converter.UserFromInput(id, input)
	users[idx] = user
	if err := s.persist(ctx, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the user and persists.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("User ID is required", map[string]any{"id": id})
	}
	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := entity.IndexOfUser(users, id)
	if idx < 0 {
		return NewNotFoundError(resourceName, id)
	}

	users = append(users[:idx], users[idx+1:]...)
	return s.persist(ctx, users)
}

func (s *Store) load(ctx context.Context) ([]entity.User, error) {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		return nil, NewStorageError("Failed to read users data", err)
	}
	var users []entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, NewStorageError("Failed to parse users data", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

func (s *Store) persist(ctx context.Context, users []entity.User) error {
	data, err := encodeUsers(users)
	if err != nil {
		return NewStorageError("Failed to encode users data", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return NewStorageError("Failed to write users data", err)
	}
	return nil
}

// encodeUsers renders the collection the way it is kept on disk: two-space
// indentation, keys in struct order.
func encodeUsers(users []entity.User) ([]byte, error) {
	if users == nil {
		users = []entity.User{}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func usernameTaken(users []entity.User, username string) bool {
	for idx := range users {
		if users[idx].Username == username {
			return true
		}
	}
	return false
}
