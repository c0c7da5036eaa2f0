package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for an authenticated user
type UserClaims struct {
	UserID    string `json:"userId"`
	Pseudonym string `json:"pseudonym"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Pseudonym string `json:"pseudonym"`
	Password  string `json:"password"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Pseudonym string `json:"pseudonym"`
	Password  string `json:"password"`
}

// LoginResponse is returned after successful login or registration
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
