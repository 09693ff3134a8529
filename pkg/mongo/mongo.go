package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config is bound from DATABASE_* environment variables.
type Config struct {
	URL              string `split_words:"true"`
	Name             string `split_words:"true"`
	ConnectTimeout   int    `split_words:"true" default:"10"`
	OperationTimeout int    `split_words:"true" default:"5"`
}

func (c *Config) Options() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URL).
		SetConnectTimeout(time.Duration(c.ConnectTimeout) * time.Second).
		SetServerSelectionTimeout(time.Duration(c.ConnectTimeout) * time.Second).
		SetTimeout(time.Duration(c.OperationTimeout) * time.Second)
}

// New connects the client pool and returns the configured database. The
// returned error only reports a malformed configuration; reachability is
// checked separately with Ping so the process can start without the server.
func (c *Config) New(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, c.Options())
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(c.Name), nil
}

// Ping checks the primary is reachable within the connect timeout.
func (c *Config) Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.ConnectTimeout)*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}
