package render

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// PathID reads the numeric {id} route parameter.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive number", validate.ErrInvalidInput)
	}
	return id, nil
}

func ListQuery(r *http.Request) domain.ListQuery {
	return domain.ParseListQuery(r.URL.Query())
}
