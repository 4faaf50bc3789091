package orders

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	"github.com/GlebRadaev/proxyconsole/internal/service/orderservice"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	List(ctx context.Context, q domain.ListQuery, typ domain.OrderType) (*domain.Page[domain.Order], error)
	Get(ctx context.Context, number string) (*domain.Order, error)
	CreateDynamic(ctx context.Context, req dto.CreateDynamicOrderDTO) (*domain.Order, error)
	CreateStatic(ctx context.Context, req dto.CreateStaticOrderDTO) (*domain.Order, error)
	Renew(ctx context.Context, number string, req dto.RenewOrderDTO) (*domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

type orderView struct {
	*domain.Order
	AmountDisplay string `json:"amount_display"`
}

func view(o *domain.Order) orderView {
	return orderView{Order: o, AmountDisplay: domain.FormatMoney(o.Amount)}
}

// GetOrders godoc
//
//	@Summary		List proxy orders
//	@Description	Page through orders of every type, or of the type given in the query.
//	@Tags			Orders
//	@Produce		json
//	@Param			type		query		string	false	"dynamic or static"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	domain.Page[domain.Order]
//	@Failure		302			{string}	string			"Session expired, redirect to login"
//	@Failure		422			{object}	utils.Response	"Rejected by backend"
//	@Failure		502			{object}	utils.Response	"Backend unavailable"
//	@Router			/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.OrderType(r.URL.Query().Get("type")))
}

// DynamicOrders backs the dynamic order page.
func (h *OrderHandler) DynamicOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.OrderDynamic)
}

// StaticOrders backs the static order page.
func (h *OrderHandler) StaticOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.OrderStatic)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, typ domain.OrderType) {
	switch typ {
	case "", domain.OrderDynamic, domain.OrderStatic:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order type")
		return
	}

	page, err := h.orderService.List(r.Context(), render.ListQuery(r), typ)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	views := make([]orderView, len(page.List))
	for i := range page.List {
		views[i] = view(&page.List[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, domain.Page[orderView]{
		List:     views,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Tags			Orders
//	@Produce		json
//	@Param			number	path		string	true	"Order number"
//	@Success		200		{object}	domain.Order
//	@Failure		422		{object}	utils.Response	"Invalid order number or rejected by backend"
//	@Router			/orders/{number} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view(order))
}

// CreateDynamic godoc
//
//	@Summary		Open a dynamic proxy order
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		dto.CreateDynamicOrderDTO	true	"Order"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		422		{object}	utils.Response	"Rejected by backend"
//	@Router			/order/dynamic [post]
func (h *OrderHandler) CreateDynamic(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDynamicOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.CreateDynamic(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view(order))
}

// CreateStatic godoc
//
//	@Summary		Open a static proxy order
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		dto.CreateStaticOrderDTO	true	"Order"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		422		{object}	utils.Response	"Rejected by backend"
//	@Router			/order/static [post]
func (h *OrderHandler) CreateStatic(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaticOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.CreateStatic(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view(order))
}

// Renew godoc
//
//	@Summary		Extend an order
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			number	path		string				true	"Order number"
//	@Param			renew	body		dto.RenewOrderDTO	true	"Extra duration in days"
//	@Success		200		{object}	domain.Order
//	@Failure		422		{object}	utils.Response	"Invalid order number or rejected by backend"
//	@Router			/orders/{number}/renew [post]
func (h *OrderHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req dto.RenewOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.Renew(r.Context(), chi.URLParam(r, "number"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view(order))
}

func (h *OrderHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if orderservice.IsInvalidNumber(err) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid order number")
		return
	}
	render.Error(w, r, err)
}
