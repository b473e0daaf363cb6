package api

import (
	"context"
	"net/http"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// Engine defines the document operations the API layer needs from the CMS
// core. Satisfied by *core.CMS.
type Engine interface {
	Create(ctx context.Context, collection string, data domain.Document, user *domain.User) (domain.Document, error)
	Find(ctx context.Context, collection string, opts domain.FindOptions, user *domain.User) (*domain.FindResult, error)
	FindByID(ctx context.Context, collection, id string, user *domain.User) (domain.Document, error)
	Update(ctx context.Context, collection, id string, patch domain.Document, user *domain.User) (domain.Document, error)
	Delete(ctx context.Context, collection, id string, user *domain.User) error
	Count(ctx context.Context, collection string, where domain.Where, user *domain.User) (int, error)
}

// Handler provides HTTP handlers for the CMS API
type Handler struct {
	cms Engine
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(cms Engine) *Handler {
	return &Handler{cms: cms}
}

// userFromRequest builds the acting user from trusted request headers. An
// upstream proxy is expected to have authenticated the request; session
// handling does not live at this layer.
func userFromRequest(r *http.Request) *domain.User {
	id := r.Header.Get("X-User-Id")
	if id == "" {
		return nil
	}
	return &domain.User{
		ID:   id,
		Role: r.Header.Get("X-User-Role"),
	}
}
