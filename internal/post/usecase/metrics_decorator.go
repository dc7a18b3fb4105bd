package usecase

import (
	"context"
	"time"

	"github.com/allisson/blog/internal/metrics"
	postDomain "github.com/allisson/blog/internal/post/domain"
)

const metricsDomain = "posts"

// postUseCaseWithMetrics decorates PostUseCase with metrics instrumentation.
type postUseCaseWithMetrics struct {
	next    PostUseCase
	metrics metrics.BusinessMetrics
}

// NewPostUseCaseWithMetrics wraps a PostUseCase with metrics recording.
func NewPostUseCaseWithMetrics(useCase PostUseCase, m metrics.BusinessMetrics) PostUseCase {
	return &postUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for post listing.
func (p *postUseCaseWithMetrics) List(ctx context.Context) ([]*postDomain.Post, error) {
	start := time.Now()
	posts, err := p.next.List(ctx)
	metrics.Observe(ctx, p.metrics, metricsDomain, "post_list", start, err)
	return posts, err
}

// Get records metrics for post lookups.
func (p *postUseCaseWithMetrics) Get(ctx context.Context, id string) (*postDomain.Post, error) {
	start := time.Now()
	post, err := p.next.Get(ctx, id)
	metrics.Observe(ctx, p.metrics, metricsDomain, "post_get", start, err)
	return post, err
}

// Create records metrics for post creation.
func (p *postUseCaseWithMetrics) Create(ctx context.Context, title, content string) (*postDomain.Post, error) {
	start := time.Now()
	post, err := p.next.Create(ctx, title, content)
	metrics.Observe(ctx, p.metrics, metricsDomain, "post_create", start, err)
	return post, err
}

// Update records metrics for post updates.
func (p *postUseCaseWithMetrics) Update(ctx context.Context, id, title, content string) (*postDomain.Post, error) {
	start := time.Now()
	post, err := p.next.Update(ctx, id, title, content)
	metrics.Observe(ctx, p.metrics, metricsDomain, "post_update", start, err)
	return post, err
}

// Delete records metrics for post deletion.
func (p *postUseCaseWithMetrics) Delete(ctx context.Context, id string) (*postDomain.Post, error) {
	start := time.Now()
	post, err := p.next.Delete(ctx, id)
	metrics.Observe(ctx, p.metrics, metricsDomain, "post_delete", start, err)
	return post, err
}
