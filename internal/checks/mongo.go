package checks

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aryankumar/probectl/internal/probe"
)

// MongoPinger captures the subset of the MongoDB client used for readiness checks
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Mongo connects to uri and pings the primary
func Mongo(uri string) probe.Operation {
	return func(ctx context.Context) error {
		if uri == "" {
			return errors.New("mongo probe: uri is required")
		}
		ctx = contextOrBackground(ctx)

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("probectl"))
		if err != nil {
			return probeFailed("mongo", err)
		}
		defer func() {
			_ = client.Disconnect(context.WithoutCancel(ctx))
		}()

		return MongoPing(client, readpref.Primary())(ctx)
	}
}

// MongoPing checks an existing MongoDB client
// If readPref is nil it defaults to readpref.Primary
func MongoPing(client MongoPinger, readPref *readpref.ReadPref) probe.Operation {
	return func(ctx context.Context) error {
		if client == nil {
			return nilComponentError("mongo", "client")
		}

		rp := readPref
		if rp == nil {
			rp = readpref.Primary()
		}

		if err := client.Ping(contextOrBackground(ctx), rp); err != nil {
			return probeFailed("mongo", err)
		}
		return nil
	}
}
