package usecase

import (
	"context"

	postDomain "github.com/allisson/blog/internal/post/domain"
)

// PostRepository defines the interface for post persistence.
type PostRepository interface {
	List(ctx context.Context) ([]*postDomain.Post, error)
	Get(ctx context.Context, id string) (*postDomain.Post, error)
	Create(ctx context.Context, post *postDomain.Post) error
	Update(ctx context.Context, post *postDomain.Post) error
	Delete(ctx context.Context, id string) error
}

// PostUseCase defines the interface for blog post operations.
type PostUseCase interface {
	List(ctx context.Context) ([]*postDomain.Post, error)
	Get(ctx context.Context, id string) (*postDomain.Post, error)
	Create(ctx context.Context, title, content string) (*postDomain.Post, error)
	// Update replaces title and content of an existing post. The post is loaded first,
	// so a missing post is reported before any validation error.
	Update(ctx context.Context, id, title, content string) (*postDomain.Post, error)
	// Delete removes a post and returns it as it was before deletion.
	Delete(ctx context.Context, id string) (*postDomain.Post, error)
}
