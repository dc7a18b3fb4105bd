package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CollectionInitializer creates and seeds a collection when it does not exist yet.
type CollectionInitializer interface {
	Init(ctx context.Context) (bool, error)
}

type initDBResult struct {
	Collection string `json:"collection"`
	Created    bool   `json:"created"`
}

// RunInitDB bootstraps the posts collection. Running it against an initialized
// database changes nothing.
func RunInitDB(
	ctx context.Context,
	initializer CollectionInitializer,
	collection string,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("initializing database", slog.String("collection", collection))

	created, err := initializer.Init(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	logger.Info("database initialized", slog.String("collection", collection), slog.Bool("created", created))

	if format == "json" {
		return writeJSON(writer, initDBResult{Collection: collection, Created: created})
	}

	if created {
		_, _ = fmt.Fprintf(writer, "Created collection %q with seed posts\n", collection)
	} else {
		_, _ = fmt.Fprintf(writer, "Collection %q already exists, nothing to do\n", collection)
	}
	return nil
}
