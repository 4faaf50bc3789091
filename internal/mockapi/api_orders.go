package mockapi

import (
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/go-chi/chi/v5"
)

// ListOrders godoc
//
//	@Summary	List orders
//	@Tags		Orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		type		query		string	false	"dynamic or static"
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Param		keyword		query		string	false	"Search fragment"
//	@Param		status		query		string	false	"active or disabled"
//	@Success	200			{object}	utils.Envelope{data=domain.Page[domain.Order]}
//	@Failure	401			{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/orders [get]
func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Orders(listQuery(r), domain.OrderType(r.URL.Query().Get("type"))))
}

// GetOrder godoc
//
//	@Summary	Get an order
//	@Tags		Orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		number	path		string	true	"number"
//	@Success	200		{object}	utils.Envelope{data=domain.Order}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/orders/{number} [get]
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.Order(chi.URLParam(r, "number"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, order)
}

// CreateDynamicOrder godoc
//
//	@Summary	Buy a dynamic traffic package for a user
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateDynamicOrderDTO	true	"Order"
//	@Success	200		{object}	utils.Envelope{data=domain.Order}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/orders/dynamic [post]
func (s *Server) CreateDynamicOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDynamicOrderDTO
	if !decode(w, r, &req) {
		return
	}
	s.createOrder(w, r, OrderRequest{
		Type:       domain.OrderDynamic,
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Quantity:   req.Quantity,
		Duration:   req.Duration,
	})
}

// CreateStaticOrder godoc
//
//	@Summary	Buy static IPs for a user
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateStaticOrderDTO	true	"Order"
//	@Success	200		{object}	utils.Envelope{data=domain.Order}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/orders/static [post]
func (s *Server) CreateStaticOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaticOrderDTO
	if !decode(w, r, &req) {
		return
	}
	s.createOrder(w, r, OrderRequest{
		Type:       domain.OrderStatic,
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Region:     req.Region,
		Quantity:   req.Quantity,
		Duration:   req.Duration,
	})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request, req OrderRequest) {
	order, err := s.store.CreateOrder(req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, order)
}

// RenewOrder godoc
//
//	@Summary	Extend an order
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		number	path		string				true	"number"
//	@Param		body	body		dto.RenewOrderDTO	true	"Extra days"
//	@Success	200		{object}	utils.Envelope{data=domain.Order}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/orders/{number}/renew [post]
func (s *Server) RenewOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.RenewOrderDTO
	if !decode(w, r, &req) {
		return
	}
	order, err := s.store.Renew(chi.URLParam(r, "number"), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, order)
}

// DynamicPackages godoc
//
//	@Summary	Dynamic traffic packages
//	@Tags		Resources
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope{data=[]domain.Resource}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/resources/dynamic [get]
func (s *Server) DynamicPackages(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.DynamicPackages())
}

// StaticResources godoc
//
//	@Summary	Static IP resources
//	@Tags		Resources
//	@Produce	json
//	@Security	BearerAuth
//	@Param		region	query		string	false	"Region code"
//	@Success	200		{object}	utils.Envelope{data=[]domain.Resource}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/resources/static [get]
func (s *Server) StaticResources(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.StaticResources(r.URL.Query().Get("region")))
}

// Regions godoc
//
//	@Summary	Regions with static IPs
//	@Tags		Resources
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope{data=[]domain.Region}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/resources/regions [get]
func (s *Server) Regions(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Regions())
}
