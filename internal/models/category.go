// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCategoryNotFound = errors.New("category not found")

// Category groups catalog entries on the browsing surface. New ingests land
// in DefaultCategory until an admin files them.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type CategoryStore struct {
	categories *mongo.Collection
}

func NewCategoryStore(categories *mongo.Collection) *CategoryStore {
	return &CategoryStore{categories: categories}
}

func (s *CategoryStore) List(ctx context.Context) ([]Category, error) {
	cursor, err := s.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	return categories, nil
}

func (s *CategoryStore) Create(ctx context.Context, name string) (*Category, error) {
	category := Category{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.categories.InsertOne(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	category.ID = res.InsertedID.(primitive.ObjectID)
	return &category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
