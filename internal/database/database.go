// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package database owns the MongoDB connection lifecycle. The handle is
// created once at startup and injected into the stores; nothing else in the
// codebase opens connections.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// DB wraps the mongo client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens and verifies the MongoDB connection.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info().Str("database", dbName).Msg("connected to MongoDB")

	return &DB{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close disconnects the client. Safe to call on shutdown paths.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Ping verifies the connection is still alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) Movies() *mongo.Collection {
	return d.db.Collection("movies")
}

func (d *DB) Settings() *mongo.Collection {
	return d.db.Collection("settings")
}

func (d *DB) Categories() *mongo.Collection {
	return d.db.Collection("categories")
}

// EnsureIndexes creates the secondary indexes the pipeline depends on: the
// title merge key and the nested access code lookup.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "files.code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "updated_at", Value: -1}},
		},
	}

	if _, err := d.Movies().Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create movie indexes: %w", err)
	}

	return nil
}
