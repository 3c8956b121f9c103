package course

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/nav"
)

// Resolver pre-loads the course an edit view needs. Malformed or
// non-positive ids are rejected outright, without hitting the repository.
func Resolver(svc *Service) nav.ResolverFunc {
	return func(ctx context.Context, params nav.Params) (interface{}, error) {
		raw := params["id"]
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, errors.Wrapf(core.ErrResourceNotFound, "invalid course id %q", raw)
		}
		crs, err := svc.GetByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, errors.Wrapf(core.ErrResourceNotFound, "course %d", id)
			}
			return nil, errors.Wrap(err, "loading course")
		}
		return crs, nil
	}
}
