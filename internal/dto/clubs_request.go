package dto

import "strings"

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Description string `json:"description"`
	University  string `json:"university"`
	CoverImage  string `json:"coverImage"`
}

// UpdateClubRequest keeps the current value of every empty field.
type UpdateClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	University  string `json:"university"`
	CoverImage  string `json:"coverImage"`
}

func (r UpdateClubRequest) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	for column, value := range map[string]string{
		"name":        r.Name,
		"description": r.Description,
		"university":  r.University,
		"cover_image": r.CoverImage,
	} {
		if strings.TrimSpace(value) != "" {
			updates[column] = value
		}
	}
	return updates
}
