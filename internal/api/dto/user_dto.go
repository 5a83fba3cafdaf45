package dto

import "time"

// CreateUserRequest payload for POST /users.
type CreateUserRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse is the user representation returned by the API.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
