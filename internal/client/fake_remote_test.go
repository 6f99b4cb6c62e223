package client

import (
	"context"
	"errors"
	"sync"

	"userdesk/internal/entity"
	"userdesk/internal/entity/converter"
)

// fakeRemote is an in-memory Remote. Setting err makes every call fail.
type fakeRemote struct {
	mu    sync.Mutex
	users []entity.User
	err   error
	calls int
}

func (f *fakeRemote) List(context.Context) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return converter.CloneUsers(f.users), nil
}

func (f *fakeRemote) Create(_ context.Context, input entity.UserInput) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	user := converter.UserFromInput(entity.NextUserID(f.users), &input)
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeRemote) Update(_ context.Context, id int64, input entity.UserInput) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	idx := entity.IndexOfUser(f.users, id)
	if idx < 0 {
		return nil, &RemoteError{StatusCode: 404, Message: "not found"}
	}
	f.users[idx] = converter.UserFromInput(id, &input)
	user := f.users[idx]
	return &user, nil
}

func (f *fakeRemote) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	idx := entity.IndexOfUser(f.users, id)
	if idx < 0 {
		return &RemoteError{StatusCode: 404, Message: "not found"}
	}
	f.users = append(f.users[:idx], f.users[idx+1:]...)
	return nil
}

var errUnreachable = errors.New("dial tcp: connection refused")
