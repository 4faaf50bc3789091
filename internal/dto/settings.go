package dto

import "github.com/shopspring/decimal"

type UpdateSettingsDTO struct {
	SiteName          *string          `json:"site_name,omitempty" validate:"omitempty,min=1,max=100"`
	SupportEmail      *string          `json:"support_email,omitempty" validate:"omitempty,email"`
	MinRecharge       *decimal.Decimal `json:"min_recharge,omitempty"`
	DefaultAgentLimit *decimal.Decimal `json:"default_agent_limit,omitempty"`
	AllowRegister     *bool            `json:"allow_register,omitempty"`
	Announcement      *string          `json:"announcement,omitempty" validate:"omitempty,max=1000"`
}

type StatsQueryDTO struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}
