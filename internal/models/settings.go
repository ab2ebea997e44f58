// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsStore holds the single free-form site settings document (ad slots,
// site toggles). The document shape is owned by the operator, not the code.
type SettingsStore struct {
	settings *mongo.Collection
}

func NewSettingsStore(settings *mongo.Collection) *SettingsStore {
	return &SettingsStore{settings: settings}
}

// Get returns the settings document, or an empty map when none exists yet.
func (s *SettingsStore) Get(ctx context.Context) (map[string]any, error) {
	var doc map[string]any
	err := s.settings.FindOne(ctx, bson.M{}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	delete(doc, "_id")
	return doc, nil
}

// Set replaces the settings document.
func (s *SettingsStore) Set(ctx context.Context, doc map[string]any) error {
	delete(doc, "_id")
	doc["updated_at"] = time.Now().UTC()

	_, err := s.settings.ReplaceOne(ctx, bson.M{}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set settings: %w", err)
	}

	return nil
}
