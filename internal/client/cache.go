package client

import (
	"context"
	"fmt"
	"sync"

	"userdesk/internal/entity"
	"userdesk/internal/entity/converter"
	"userdesk/internal/userstore"

	"github.com/sirupsen/logrus"
)

// Cache holds a local copy of the collection. Every mutation is tried against
// the remote first; on any remote failure it is applied locally instead and
// the result says so. The mutex guards memory only: remote calls are not
// serialized, so concurrent mutations keep last-write-wins semantics.
type Cache struct {
	remote Remote

	mu          sync.RWMutex
	records     []entity.User
	initialized bool
}

// NewCache creates a cache over remote. A nil remote makes every mutation a
// local fallback.
func NewCache(remote Remote) *Cache {
	return &Cache{remote: remote, records: []entity.User{}}
}

// Initialize loads the seed collection once. It is a no-op after a previous
// call that left the cache non-empty.
func (c *Cache) Initialize(seed []entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized && len(c.records) > 0 {
		return
	}
	c.records = converter.CloneUsers(seed)
	c.initialized = true
}

// Reset drops every record and the initialized flag.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = []entity.User{}
	c.initialized = false
}

// Records returns a copy of the local collection.
func (c *Cache) Records() []entity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return converter.CloneUsers(c.records)
}

// Refresh replaces the local collection with the remote one.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.remote == nil {
		return errNoRemote
	}
	users, err := c.remote.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.records = converter.CloneUsers(users)
	c.initialized = true
	c.mu.Unlock()
	return nil
}

// GetUsers refreshes from the remote when it can, then answers the query from
// the local collection. A failed refresh keeps the stale records.
func (c *Cache) GetUsers(ctx context.Context, q Query) Page {
	if err := c.Refresh(ctx); err != nil {
		logrus.WithError(err).Debug("users_refresh_failed")
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return applyQuery(c.records, q)
}

// GetUserByID looks the user up in the local collection only.
func (c *Cache) GetUserByID(id int64) (*entity.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := entity.IndexOfUser(c.records, id)
	if idx < 0 {
		return nil, userstore.NewNotFoundError("User", id)
	}
	user := c.records[idx]
	return &user, nil
}

func (c *Cache) CreateUser(ctx context.Context, input entity.UserInput) (*MutationResult, error) {
	remoteErr := errNoRemote
	if c.remote != nil {
		user, err := c.remote.Create(ctx, input)
		if err == nil {
			c.mu.Lock()
			c.records = append(c.records, *user)
			c.mu.Unlock()
			return &MutationResult{
				Outcome: OutcomeRemoteCommitted,
				User:    user,
				ID:      user.ID,
				Message: "User added successfully",
			}, nil
		}
		remoteErr = err
	}

	c.mu.Lock()
	user := converter.UserFromInput(entity.NextUserID(c.records), &input)
	c.records = append(c.records, user)
	c.mu.Unlock()

	logFallback("create", user.ID, remoteErr)
	return &MutationResult{
		Outcome:   OutcomeLocalFallback,
		User:      &user,
		ID:        user.ID,
		Message:   "User added successfully" + localOnlySuffix,
		RemoteErr: remoteErr,
	}, nil
}

func (c *Cache) UpdateUser(ctx context.Context, id int64, input entity.UserInput) (*MutationResult, error) {
	remoteErr := errNoRemote
	if c.remote != nil {
		user, err := c.remote.Update(ctx, id, input)
		if err == nil {
			c.mu.Lock()
			if idx := entity.IndexOfUser(c.records, id); idx >= 0 {
				c.records[idx] = *user
			}
			c.mu.Unlock()
			return &MutationResult{
				Outcome: OutcomeRemoteCommitted,
				User:    user,
				ID:      id,
				Message: fmt.Sprintf("User with ID %d updated successfully", id),
			}, nil
		}
		remoteErr = err
	}

	c.mu.Lock()
	idx := entity.IndexOfUser(c.records, id)
	if idx < 0 {
		c.mu.Unlock()
		return nil, userstore.NewNotFoundError("User", id)
	}
	user := converter.UserFromInput(id, &input)
	c.records[idx] = user
	c.mu.Unlock()

	logFallback("update", id, remoteErr)
	return &MutationResult{
		Outcome:   OutcomeLocalFallback,
		User:      &user,
		ID:        id,
		Message:   fmt.Sprintf("User with ID %d updated successfully%s", id, localOnlySuffix),
		RemoteErr: remoteErr,
	}, nil
}

func (c *Cache) DeleteUser(ctx context.Context, id int64) (*MutationResult, error) {
	remoteErr := errNoRemote
	if c.remote != nil {
		err := c.remote.Delete(ctx, id)
		if err == nil {
			c.mu.Lock()
			if idx := entity.IndexOfUser(c.records, id); idx >= 0 {
				c.records = append(c.records[:idx], c.records[idx+1:]...)
			}
			c.mu.Unlock()
			return &MutationResult{
				Outcome: OutcomeRemoteCommitted,
				ID:      id,
				Message: fmt.Sprintf("User with ID %d deleted successfully", id),
			}, nil
		}
		remoteErr = err
	}

	c.mu.Lock()
	idx := entity.IndexOfUser(c.records, id)
	if idx < 0 {
		c.mu.Unlock()
		return nil, userstore.NewNotFoundError("User", id)
	}
	c.records = append(c.records[:idx], c.records[idx+1:]...)
	c.mu.Unlock()

	logFallback("delete", id, remoteErr)
	return &MutationResult{
		Outcome:   OutcomeLocalFallback,
		ID:        id,
		Message:   fmt.Sprintf("User with ID %d deleted successfully%s", id, localOnlySuffix),
		RemoteErr: remoteErr,
	}, nil
}

func logFallback(op string, id int64, remoteErr error) {
	logrus.WithError(remoteErr).WithFields(logrus.Fields{
		"operation": op,
		"user_id":   id,
	}).Warn("users_local_fallback")
}
