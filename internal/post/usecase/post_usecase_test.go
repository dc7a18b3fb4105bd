package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/blog/internal/errors"
	postDomain "github.com/allisson/blog/internal/post/domain"
)

// mockPostRepository is a mock implementation of PostRepository for testing.
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) List(ctx context.Context) ([]*postDomain.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*postDomain.Post), args.Error(1)
}

func (m *mockPostRepository) Get(ctx context.Context, id string) (*postDomain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postDomain.Post), args.Error(1)
}

func (m *mockPostRepository) Create(ctx context.Context, post *postDomain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) Update(ctx context.Context, post *postDomain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const postID = "65f1c0a2b3d4e5f6a7b8c9d0"

func newTestUseCase(repo PostRepository, now time.Time) *postUseCase {
	return &postUseCase{repo: repo, now: func() time.Time { return now }}
}

func existingPost() *postDomain.Post {
	return &postDomain.Post{
		ID:      postID,
		Created: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Title:   "Post 1 title",
		Content: "Post 1 content",
	}
}

func TestPostUseCase_List(t *testing.T) {
	ctx := context.Background()
	repo := &mockPostRepository{}
	posts := []*postDomain.Post{existingPost()}
	repo.On("List", ctx).Return(posts, nil).Once()

	got, err := NewPostUseCase(repo).List(ctx)

	require.NoError(t, err)
	assert.Equal(t, posts, got)
	repo.AssertExpectations(t)
}

func TestPostUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(existingPost(), nil).Once()

		got, err := NewPostUseCase(repo).Get(ctx, postID)

		require.NoError(t, err)
		assert.Equal(t, "Post 1 title", got.Title)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, "not-an-id").Return(nil, postDomain.ErrInvalidPostID).Once()

		got, err := NewPostUseCase(repo).Get(ctx, "not-an-id")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostUseCase_Create(t *testing.T) {
	ctx := context.Background()
	// Local time with sub-millisecond precision.
	now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.FixedZone("BRT", -3*60*60))

	t.Run("Success", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Post")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*postDomain.Post).ID = postID
			}).
			Return(nil).
			Once()

		post, err := newTestUseCase(repo, now).Create(ctx, "T", "C")

		require.NoError(t, err)
		assert.Equal(t, postID, post.ID)
		assert.Equal(t, "T", post.Title)
		assert.Equal(t, "C", post.Content)
		assert.Equal(t, time.UTC, post.Created.Location())
		assert.True(t, post.Created.Equal(now.Truncate(time.Millisecond)))
		repo.AssertExpectations(t)
	})

	t.Run("Error_TitleRequired", func(t *testing.T) {
		repo := &mockPostRepository{}

		post, err := newTestUseCase(repo, now).Create(ctx, "", "C")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, postDomain.ErrTitleRequired)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Create", ctx, mock.Anything).Return(apperrors.ErrUnavailable).Once()

		post, err := newTestUseCase(repo, now).Create(ctx, "T", "C")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})
}

func TestPostUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(existingPost(), nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(p *postDomain.Post) bool {
			return p.ID == postID && p.Title == "New title" && p.Content == "New content"
		})).Return(nil).Once()

		post, err := NewPostUseCase(repo).Update(ctx, postID, "New title", "New content")

		require.NoError(t, err)
		assert.Equal(t, "New title", post.Title)
		assert.Equal(t, existingPost().Created, post.Created)
		repo.AssertExpectations(t)
	})

	t.Run("Error_EmptyTitlePersistsNothing", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(existingPost(), nil).Once()

		post, err := NewPostUseCase(repo).Update(ctx, postID, "", "New content")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, postDomain.ErrTitleRequired)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFoundBeforeValidation", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(nil, postDomain.ErrPostNotFound).Once()

		_, err := NewPostUseCase(repo).Update(ctx, postID, "", "")

		assert.ErrorIs(t, err, postDomain.ErrPostNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestPostUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsDeletedPost", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(existingPost(), nil).Once()
		repo.On("Delete", ctx, postID).Return(nil).Once()

		post, err := NewPostUseCase(repo).Delete(ctx, postID)

		require.NoError(t, err)
		assert.Equal(t, "Post 1 title", post.Title)
		repo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo := &mockPostRepository{}
		repo.On("Get", ctx, postID).Return(nil, postDomain.ErrPostNotFound).Once()

		post, err := NewPostUseCase(repo).Delete(ctx, postID)

		assert.Nil(t, post)
		assert.ErrorIs(t, err, postDomain.ErrPostNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
