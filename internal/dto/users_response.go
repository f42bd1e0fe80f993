package dto

import "github.com/CampusConnections/campus-service/internal/model"

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
