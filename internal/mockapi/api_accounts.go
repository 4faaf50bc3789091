package mockapi

import (
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
)

func listQuery(r *http.Request) domain.ListQuery {
	return domain.ParseListQuery(r.URL.Query())
}

// ListUsers godoc
//
//	@Summary	List end users
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Param		keyword		query		string	false	"Search fragment"
//	@Param		status		query		string	false	"active or disabled"
//	@Success	200			{object}	utils.Envelope{data=domain.Page[domain.User]}
//	@Failure	401			{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Users(listQuery(r), 0))
}

// GetUser godoc
//
//	@Summary	Get an end user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"id"
//	@Success	200	{object}	utils.Envelope{data=domain.User}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id} [get]
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	user, err := s.store.User(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, user)
}

// CreateUser godoc
//
//	@Summary	Create an end user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateUserDTO	true	"New user"
//	@Success	200		{object}	utils.Envelope{data=domain.User}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users [post]
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserDTO
	if !decode(w, r, &req) {
		return
	}
	user, err := s.store.CreateUser(req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, user)
}

// UpdateUser godoc
//
//	@Summary	Update an end user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"id"
//	@Param		body	body		dto.UpdateUserDTO	true	"Fields to change"
//	@Success	200		{object}	utils.Envelope{data=domain.User}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id} [put]
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req dto.UpdateUserDTO
	if !decode(w, r, &req) {
		return
	}
	user, err := s.store.UpdateUser(id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, user)
}

// DeleteUser godoc
//
//	@Summary	Delete an end user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"id"
//	@Success	200	{object}	utils.Envelope
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id} [delete]
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, nil)
}

// ListAgents godoc
//
//	@Summary	List agents
//	@Tags		Agents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Param		keyword		query		string	false	"Search fragment"
//	@Param		status		query		string	false	"active or disabled"
//	@Success	200			{object}	utils.Envelope{data=domain.Page[domain.Agent]}
//	@Failure	401			{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents [get]
func (s *Server) ListAgents(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Agents(listQuery(r)))
}

// GetAgent godoc
//
//	@Summary	Get an agent
//	@Tags		Agents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"id"
//	@Success	200	{object}	utils.Envelope{data=domain.Agent}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id} [get]
func (s *Server) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	agent, err := s.store.Agent(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, agent)
}

// CreateAgent godoc
//
//	@Summary	Create an agent
//	@Tags		Agents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.CreateAgentDTO	true	"New agent"
//	@Success	200		{object}	utils.Envelope{data=domain.Agent}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents [post]
func (s *Server) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentDTO
	if !decode(w, r, &req) {
		return
	}
	agent, err := s.store.CreateAgent(req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, agent)
}

// UpdateAgent godoc
//
//	@Summary	Update an agent
//	@Tags		Agents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"id"
//	@Param		body	body		dto.UpdateAgentDTO	true	"Fields to change"
//	@Success	200		{object}	utils.Envelope{data=domain.Agent}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id} [put]
func (s *Server) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req dto.UpdateAgentDTO
	if !decode(w, r, &req) {
		return
	}
	agent, err := s.store.UpdateAgent(id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, agent)
}

// AgentUsers godoc
//
//	@Summary	End users brought in by an agent
//	@Tags		Agents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id			path		int		true	"id"
//	@Param		page		query		int		false	"Page number"
//	@Param		page_size	query		int		false	"Page size"
//	@Param		keyword		query		string	false	"Search fragment"
//	@Param		status		query		string	false	"active or disabled"
//	@Success	200			{object}	utils.Envelope{data=domain.Page[domain.User]}
//	@Failure	401			{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id}/users [get]
func (s *Server) AgentUsers(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	if _, err := s.store.Agent(id); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, s.store.Users(listQuery(r), id))
}

// SetUserStatus godoc
//
//	@Summary	Enable or disable an end user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"id"
//	@Param		body	body		dto.StatusDTO	true	"Status"
//	@Success	200		{object}	utils.Envelope
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id}/status [put]
func (s *Server) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, r, domain.RoleUser)
}

// SetAgentStatus godoc
//
//	@Summary	Enable or disable an agent
//	@Tags		Agents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"id"
//	@Param		body	body		dto.StatusDTO	true	"Status"
//	@Success	200		{object}	utils.Envelope
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id}/status [put]
func (s *Server) SetAgentStatus(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, r, domain.RoleAgent)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request, role domain.Role) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req dto.StatusDTO
	if !decode(w, r, &req) {
		return
	}
	if err := s.store.SetStatus(role, id, req.Status); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, nil)
}

// RechargeUser godoc
//
//	@Summary	Top up an end user
//	@Tags		Balance
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"id"
//	@Param		body	body		dto.RechargeDTO	true	"Amount and remark"
//	@Success	200		{object}	utils.Envelope{data=domain.Recharge}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id}/recharge [post]
func (s *Server) RechargeUser(w http.ResponseWriter, r *http.Request) {
	s.recharge(w, r, domain.RoleUser)
}

// RechargeAgent godoc
//
//	@Summary	Top up an agent
//	@Tags		Balance
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"id"
//	@Param		body	body		dto.RechargeDTO	true	"Amount and remark"
//	@Success	200		{object}	utils.Envelope{data=domain.Recharge}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id}/recharge [post]
func (s *Server) RechargeAgent(w http.ResponseWriter, r *http.Request) {
	s.recharge(w, r, domain.RoleAgent)
}

func (s *Server) recharge(w http.ResponseWriter, r *http.Request, role domain.Role) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req dto.RechargeDTO
	if !decode(w, r, &req) {
		return
	}
	rec, err := s.store.Recharge(role, id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, rec)
}

// AdjustUser godoc
//
//	@Summary	Adjust an end user balance
//	@Tags		Balance
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"id"
//	@Param		body	body		dto.AdjustBalanceDTO	true	"Signed amount and reason"
//	@Success	200		{object}	utils.Envelope{data=domain.Recharge}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/users/{id}/adjust [post]
func (s *Server) AdjustUser(w http.ResponseWriter, r *http.Request) {
	s.adjust(w, r, domain.RoleUser)
}

// AdjustAgent godoc
//
//	@Summary	Adjust an agent balance
//	@Tags		Balance
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"id"
//	@Param		body	body		dto.AdjustBalanceDTO	true	"Signed amount and reason"
//	@Success	200		{object}	utils.Envelope{data=domain.Recharge}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/agents/{id}/adjust [post]
func (s *Server) AdjustAgent(w http.ResponseWriter, r *http.Request) {
	s.adjust(w, r, domain.RoleAgent)
}

func (s *Server) adjust(w http.ResponseWriter, r *http.Request, role domain.Role) {
	id, valid := pathID(w, r)
	if !valid {
		return
	}
	var req dto.AdjustBalanceDTO
	if !decode(w, r, &req) {
		return
	}
	rec, err := s.store.Adjust(role, id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, rec)
}
