// Package usecase implements the blog post operations on top of a PostRepository.
//
// Titles are validated before anything is written, so a rejected create or update
// leaves storage unchanged. Creation timestamps are assigned here in UTC at
// millisecond precision, matching what the database stores.
package usecase

import (
	"context"
	"time"

	postDomain "github.com/allisson/blog/internal/post/domain"
)

type postUseCase struct {
	repo PostRepository
	now  func() time.Time
}

// NewPostUseCase creates a PostUseCase backed by repo.
func NewPostUseCase(repo PostRepository) PostUseCase {
	return &postUseCase{
		repo: repo,
		now:  time.Now,
	}
}

func (p *postUseCase) List(ctx context.Context) ([]*postDomain.Post, error) {
	return p.repo.List(ctx)
}

func (p *postUseCase) Get(ctx context.Context, id string) (*postDomain.Post, error) {
	return p.repo.Get(ctx, id)
}

func (p *postUseCase) Create(ctx context.Context, title, content string) (*postDomain.Post, error) {
	post := &postDomain.Post{
		Created: p.now().UTC().Truncate(time.Millisecond),
		Title:   title,
		Content: content,
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := p.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (p *postUseCase) Update(ctx context.Context, id, title, content string) (*postDomain.Post, error) {
	existing, err := p.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = title
	updated.Content = content
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := p.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (p *postUseCase) Delete(ctx context.Context, id string) (*postDomain.Post, error) {
	post, err := p.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return post, nil
}
