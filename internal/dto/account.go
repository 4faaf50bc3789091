package dto

import (
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateUserDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
	AgentID  int64  `json:"agent_id,omitempty" validate:"gte=0"`
	Remark   string `json:"remark,omitempty" validate:"max=200"`
}

type UpdateUserDTO struct {
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Remark *string `json:"remark,omitempty" validate:"omitempty,max=200"`
}

type CreateAgentDTO struct {
	Username   string          `json:"username" validate:"required,min=3,max=50"`
	Password   string          `json:"password" validate:"required,min=6"`
	Company    string          `json:"company,omitempty" validate:"max=100"`
	Contact    string          `json:"contact,omitempty" validate:"max=50"`
	Email      string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	CreditLine decimal.Decimal `json:"credit_line"`
}

type UpdateAgentDTO struct {
	Company    *string          `json:"company,omitempty" validate:"omitempty,max=100"`
	Contact    *string          `json:"contact,omitempty" validate:"omitempty,max=50"`
	Email      *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	CreditLine *decimal.Decimal `json:"credit_line,omitempty"`
}

type StatusDTO struct {
	Status domain.AccountStatus `json:"status" validate:"required,oneof=active disabled"`
}

// RechargeDTO credits an account; Amount must be positive.
type RechargeDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Remark string          `json:"remark,omitempty" validate:"max=200"`
}

// AdjustBalanceDTO applies a signed correction to an account balance.
type AdjustBalanceDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"required,max=200"`
}
