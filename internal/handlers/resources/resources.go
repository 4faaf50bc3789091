package resources

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
)

type Service interface {
	DynamicPackages(ctx context.Context) ([]domain.Resource, error)
	StaticResources(ctx context.Context, region string) ([]domain.Resource, error)
	Regions(ctx context.Context) ([]domain.Region, error)
}

type ResourceHandler struct {
	resourceService Service
}

func New(resourceService Service) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

func (h *ResourceHandler) DynamicPackages(w http.ResponseWriter, r *http.Request) {
	list, err := h.resourceService.DynamicPackages(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orEmpty(list))
}

// StaticResources lists static IPs, narrowed to ?region= when given.
func (h *ResourceHandler) StaticResources(w http.ResponseWriter, r *http.Request) {
	list, err := h.resourceService.StaticResources(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orEmpty(list))
}

func (h *ResourceHandler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.resourceService.Regions(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if regions == nil {
		regions = []domain.Region{}
	}
	utils.RespondWithJSON(w, http.StatusOK, regions)
}

func orEmpty(list []domain.Resource) []domain.Resource {
	if list == nil {
		return []domain.Resource{}
	}
	return list
}
