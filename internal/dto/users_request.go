package dto

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=32"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	FullName   string `json:"fullName"`
	University string `json:"university"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName   *string `json:"fullName"`
	Avatar     *string `json:"avatar"`
	Bio        *string `json:"bio"`
	University *string `json:"university"`
}

// Updates maps the provided fields to their column names.
func (r UpdateProfileRequest) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.FullName != nil {
		updates["full_name"] = *r.FullName
	}
	if r.Avatar != nil {
		updates["avatar"] = *r.Avatar
	}
	if r.Bio != nil {
		updates["bio"] = *r.Bio
	}
	if r.University != nil {
		updates["university"] = *r.University
	}
	return updates
}
