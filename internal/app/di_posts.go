package app

import (
	"fmt"

	"github.com/allisson/blog/internal/database"
	postHTTP "github.com/allisson/blog/internal/post/http"
	postRepository "github.com/allisson/blog/internal/post/repository"
	postUseCase "github.com/allisson/blog/internal/post/usecase"
)

// DatabasePool returns the pool of MongoDB clients keyed by connection descriptor.
func (c *Container) DatabasePool() *database.Pool {
	c.databasePoolInit.Do(func() {
		c.databasePool = database.NewPool(database.NewDialer(c.config.MongoTimeout), c.Logger())
	})
	return c.databasePool
}

// DatabaseFactory returns the connection factory. Credentials are read through the secret reader.
func (c *Container) DatabaseFactory() (*database.Factory, error) {
	c.databaseFactoryInit.Do(func() {
		var err error
		c.databaseFactory, err = c.initDatabaseFactory()
		if err != nil {
			c.setInitError("databaseFactory", err)
		}
	})
	if err := c.initError("databaseFactory"); err != nil {
		return nil, err
	}
	return c.databaseFactory, nil
}

// PostRepository returns the MongoDB post repository.
func (c *Container) PostRepository() (*postRepository.MongoPostRepository, error) {
	c.postRepositoryInit.Do(func() {
		var err error
		c.postRepository, err = c.initPostRepository()
		if err != nil {
			c.setInitError("postRepository", err)
		}
	})
	if err := c.initError("postRepository"); err != nil {
		return nil, err
	}
	return c.postRepository, nil
}

// PostUseCase returns the post use case.
func (c *Container) PostUseCase() (postUseCase.PostUseCase, error) {
	c.postUseCaseInit.Do(func() {
		var err error
		c.postUseCase, err = c.initPostUseCase()
		if err != nil {
			c.setInitError("postUseCase", err)
		}
	})
	if err := c.initError("postUseCase"); err != nil {
		return nil, err
	}
	return c.postUseCase, nil
}

// FlashStore returns the signed flash message store.
func (c *Container) FlashStore() (*postHTTP.FlashStore, error) {
	c.flashStoreInit.Do(func() {
		var err error
		c.flashStore, err = c.initFlashStore()
		if err != nil {
			c.setInitError("flashStore", err)
		}
	})
	if err := c.initError("flashStore"); err != nil {
		return nil, err
	}
	return c.flashStore, nil
}

// PostHandler returns the HTTP handler for the post pages.
func (c *Container) PostHandler() (*postHTTP.PostHandler, error) {
	c.postHandlerInit.Do(func() {
		var err error
		c.postHandler, err = c.initPostHandler()
		if err != nil {
			c.setInitError("postHandler", err)
		}
	})
	if err := c.initError("postHandler"); err != nil {
		return nil, err
	}
	return c.postHandler, nil
}

func (c *Container) initDatabaseFactory() (*database.Factory, error) {
	reader, err := c.SecretReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret reader for database factory: %w", err)
	}

	return database.NewFactory(database.FactoryConfig{
		Host:       c.config.MongoHost,
		Port:       c.config.MongoPort,
		AuthSource: c.config.MongoAuthSource,
		SecretPath: c.config.MongoSecretPath,
	}, reader, c.DatabasePool(), c.Logger()), nil
}

func (c *Container) initPostRepository() (*postRepository.MongoPostRepository, error) {
	factory, err := c.DatabaseFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to get database factory for post repository: %w", err)
	}
	return postRepository.NewMongoPostRepository(factory, c.config.MongoTimeout), nil
}

func (c *Container) initPostUseCase() (postUseCase.PostUseCase, error) {
	repo, err := c.PostRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get post repository for post use case: %w", err)
	}

	baseUseCase := postUseCase.NewPostUseCase(repo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for post use case: %w", err)
		}
		return postUseCase.NewPostUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initFlashStore() (*postHTTP.FlashStore, error) {
	keys, err := c.SecretResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret resolver for flash store: %w", err)
	}
	return postHTTP.NewFlashStore(keys, c.config.AppSecretKey, c.config.CookieSecure, c.Logger()), nil
}

func (c *Container) initPostHandler() (*postHTTP.PostHandler, error) {
	useCase, err := c.PostUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get post use case for post handler: %w", err)
	}

	flashes, err := c.FlashStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get flash store for post handler: %w", err)
	}

	handler, err := postHTTP.NewPostHandler(useCase, flashes, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create post handler: %w", err)
	}
	return handler, nil
}
