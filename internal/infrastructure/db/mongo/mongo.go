package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// defaultTimeout bounds every repository call.
	defaultTimeout = 10 * time.Second
	// connectTimeout bounds the initial dial plus ping at startup.
	connectTimeout = 10 * time.Second

	appName = "hcm-system"
)

// Connect dials the MongoDB deployment behind uri, confirms it is
// reachable with a primary ping and returns the client together with
// the named database handle. Each service keeps one client for its
// whole lifetime; per-operation deadlines are the repositories' job.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri).SetAppName(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(database), nil
}
