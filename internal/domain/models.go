package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
)

type OrderStatus string

const (
	OrderActive  OrderStatus = "active"
	OrderExpired OrderStatus = "expired"
)

type OrderType string

const (
	OrderDynamic OrderType = "dynamic"
	OrderStatic  OrderType = "static"
)

// Session is the client-held pair of auth token and cached profile.
// An empty Token means no session; User is only meaningful next to a token.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"userInfo"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Equal compares sessions by value. Balances compare numerically, so a
// profile read back from storage equals the one saved.
func (s Session) Equal(o Session) bool {
	if s.Token != o.Token {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == nil && o.User == nil
	}
	return s.User.Equal(*o.User)
}

type UserProfile struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Nickname  string          `json:"nickname,omitempty"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Role      Role            `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p UserProfile) Equal(o UserProfile) bool {
	return p.ID == o.ID &&
		p.Username == o.Username &&
		p.Nickname == o.Nickname &&
		p.Email == o.Email &&
		p.Phone == o.Phone &&
		p.Role == o.Role &&
		p.Balance.Equal(o.Balance) &&
		p.Status == o.Status &&
		p.CreatedAt.Equal(o.CreatedAt) &&
		p.UpdatedAt.Equal(o.UpdatedAt)
}

type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	AgentID   int64           `json:"agent_id,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status"`
	Remark    string          `json:"remark,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Agent struct {
	ID         int64           `json:"id"`
	Username   string          `json:"username"`
	Company    string          `json:"company,omitempty"`
	Contact    string          `json:"contact,omitempty"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	CreditLine decimal.Decimal `json:"credit_line"`
	Status     AccountStatus   `json:"status"`
	UserCount  int64           `json:"user_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_no"`
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username,omitempty"`
	Type        OrderType       `json:"type"`
	ResourceID  int64           `json:"resource_id"`
	Region      string          `json:"region,omitempty"`
	Quantity    int             `json:"quantity"`
	Duration    int             `json:"duration"`
	Amount      decimal.Decimal `json:"amount"`
	Status      OrderStatus     `json:"status"`
	ExpiresAt   time.Time       `json:"expire_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Resource is a sellable product: a dynamic traffic package or a static IP line.
type Resource struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      OrderType       `json:"type"`
	Region    string          `json:"region,omitempty"`
	Country   string          `json:"country,omitempty"`
	City      string          `json:"city,omitempty"`
	TrafficGB int             `json:"traffic_gb,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Status    AccountStatus   `json:"status"`
}

type Region struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
}

type Recharge struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Remark    string          `json:"remark,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type DashboardSummary struct {
	TotalUsers       int64           `json:"total_users"`
	TotalAgents      int64           `json:"total_agents"`
	ActiveOrders     int64           `json:"active_orders"`
	TodayConsumption decimal.Decimal `json:"today_consumption"`
	TodayRecharge    decimal.Decimal `json:"today_recharge"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
}

type SeriesPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

type Dashboard struct {
	Summary     DashboardSummary `json:"summary"`
	Consumption []SeriesPoint    `json:"consumption"`
	Recharges   []SeriesPoint    `json:"recharges"`
}

type Settings struct {
	SiteName          string          `json:"site_name"`
	SupportEmail      string          `json:"support_email,omitempty"`
	MinRecharge       decimal.Decimal `json:"min_recharge"`
	DefaultAgentLimit decimal.Decimal `json:"default_agent_limit"`
	AllowRegister     bool            `json:"allow_register"`
	Announcement      string          `json:"announcement,omitempty"`
}

type Page[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
