package dto

import "userdesk/internal/entity"

// UserCreateRequest is the payload for creating a user.
type UserCreateRequest struct {
	User *entity.UserInput `json:"user"`
}

// UserUpdateRequest is the payload for replacing a user. ID may also come
// from the path.
type UserUpdateRequest struct {
	ID   int64             `json:"id"`
	User *entity.UserInput `json:"user"`
}

// UserListResponse is the response for listing the whole collection.
type UserListResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Users   []entity.User `json:"users"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *entity.User `json:"user,omitempty"`
}

// StatusResponse carries only the outcome, as returned by delete.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
