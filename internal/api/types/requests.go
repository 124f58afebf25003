package types

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterArtisanRequest struct {
	Name              string   `json:"name" validate:"required"`
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	PhoneNumber       string   `json:"phone_number" validate:"required"`
	Specialty         []string `json:"specialty" validate:"required,min=1,unique,dive,oneof=plumber electrician carpenter painter mason mechanic tailor"`
	Description       string   `json:"description" validate:"required"`
	LinkOfSocialMedia string   `json:"link_of_social_media" validate:"omitempty,url"`
	AvatarURL         string   `json:"avatar_url" validate:"omitempty,url"`
	Experience        int      `json:"experience" validate:"gte=0"`
	City              string   `json:"city" validate:"required"`
}

type UpdateArtisanRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1"`
	Description       *string  `json:"description" validate:"omitempty,min=1"`
	LinkOfSocialMedia *string  `json:"link_of_social_media" validate:"omitempty,url"`
	AvatarURL         *string  `json:"avatar_url" validate:"omitempty,url"`
	Experience        *int     `json:"experience" validate:"omitempty,gte=0"`
	City              *string  `json:"city" validate:"omitempty,min=1"`
	Specialty         []string `json:"specialty" validate:"omitempty,min=1,unique,dive,oneof=plumber electrician carpenter painter mason mechanic tailor"`
}

type CreateRatingRequest struct {
	ArtisanID string  `json:"artisan_id" validate:"required,uuid4"`
	Score     *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
	Comment   *string `json:"comment" validate:"omitempty,min=10"`
}

type UpdateRatingRequest struct {
	Score   *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
	Comment *string `json:"comment" validate:"omitempty,min=4"`
}
