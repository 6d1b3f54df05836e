package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are JWT claims for owner authentication
type OwnerClaims struct {
	OwnerID string `json:"ownerId"`
	jwt.RegisteredClaims
}

// PartnerClaims are JWT claims for partner session-scoped tokens
type PartnerClaims struct {
	SessionCode string      `json:"sessionCode"`
	PartnerID   string      `json:"partnerId"`
	Role        PartnerRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for owner login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	OwnerID string `json:"ownerId"`
}
