package dto

import "github.com/CampusConnections/campus-service/internal/model"

type GetPost struct {
	Post    *model.Post `json:"post"`
	IsLiked bool        `json:"isLiked"`
}

type PostMessage struct {
	Post    *model.Post `json:"post"`
	Message string      `json:"message"`
}
