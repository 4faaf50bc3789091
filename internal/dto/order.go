package dto

type CreateDynamicOrderDTO struct {
	UserID     int64 `json:"user_id" validate:"required,gt=0"`
	ResourceID int64 `json:"resource_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,gt=0"`
	Duration   int   `json:"duration" validate:"required,gt=0"`
}

type CreateStaticOrderDTO struct {
	UserID     int64  `json:"user_id" validate:"required,gt=0"`
	ResourceID int64  `json:"resource_id" validate:"required,gt=0"`
	Region     string `json:"region" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0,lte=1000"`
	Duration   int    `json:"duration" validate:"required,gt=0"`
}

type RenewOrderDTO struct {
	Duration int `json:"duration" validate:"required,gt=0"`
}
