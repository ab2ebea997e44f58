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

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrCodeNotFound  = errors.New("access code not found")
	ErrInvalidID     = errors.New("invalid movie id")
)

const (
	FileTypeVideo    = "video"
	FileTypeDocument = "document"

	DefaultCategory = "Uncategorized"
)

// Movie is one catalog entry: a movie or a series with its deliverable files.
type Movie struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Overview    string             `bson:"overview,omitempty" json:"overview,omitempty"`
	Poster      string             `bson:"poster,omitempty" json:"poster,omitempty"`
	Backdrop    string             `bson:"backdrop,omitempty" json:"backdrop,omitempty"`
	ReleaseDate string             `bson:"release_date,omitempty" json:"release_date,omitempty"`
	VoteAverage float64            `bson:"vote_average,omitempty" json:"vote_average,omitempty"`
	Genres      []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Trailer     string             `bson:"trailer,omitempty" json:"trailer,omitempty"`
	Language    string             `bson:"language,omitempty" json:"language,omitempty"`
	Type        string             `bson:"type" json:"type"`
	Category    string             `bson:"category" json:"category"`
	IsAdult     bool               `bson:"is_adult" json:"is_adult"`
	Files       []FileRef          `bson:"files" json:"files"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// FileRef is one deliverable file inside a Movie. FileRefs are immutable once
// written; corrections happen on the Movie only.
type FileRef struct {
	FileID       string    `bson:"file_id" json:"-"`
	Code         string    `bson:"code" json:"code"`
	Filename     string    `bson:"filename" json:"filename"`
	Quality      string    `bson:"quality" json:"quality"`
	EpisodeLabel string    `bson:"episode_label" json:"episode_label"`
	Size         string    `bson:"size" json:"size"`
	FileType     string    `bson:"file_type" json:"file_type"`
	AddedAt      time.Time `bson:"added_at" json:"added_at"`
}

// MovieStore persists movies in the catalog collection.
type MovieStore struct {
	movies *mongo.Collection
}

func NewMovieStore(movies *mongo.Collection) *MovieStore {
	return &MovieStore{movies: movies}
}

// UpsertFile appends a file to the movie with the given title, creating the
// record from seed when no such title exists yet. The whole operation is a
// single conditional update so two concurrent ingests of the same new title
// cannot both insert. Descriptive fields of an existing record are left
// untouched: only the file array and the update timestamp change.
func (s *MovieStore) UpsertFile(ctx context.Context, title string, seed Movie, file FileRef) (primitive.ObjectID, bool, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$push": bson.M{"files": file},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"title":        title,
			"overview":     seed.Overview,
			"poster":       seed.Poster,
			"backdrop":     seed.Backdrop,
			"release_date": seed.ReleaseDate,
			"vote_average": seed.VoteAverage,
			"genres":       seed.Genres,
			"trailer":      seed.Trailer,
			"language":     seed.Language,
			"type":         seed.Type,
			"category":     DefaultCategory,
			"is_adult":     seed.IsAdult,
			"created_at":   now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated Movie
	err := s.movies.FindOneAndUpdate(ctx, bson.M{"title": title}, update, opts).Decode(&updated)
	if err != nil {
		return primitive.NilObjectID, false, fmt.Errorf("upsert movie %q: %w", title, err)
	}

	created := len(updated.Files) == 1 && updated.CreatedAt.Equal(updated.UpdatedAt)
	return updated.ID, created, nil
}

// FindByCode resolves an access code to its movie and the exact file it was
// minted for.
func (s *MovieStore) FindByCode(ctx context.Context, code string) (*Movie, *FileRef, error) {
	var movie Movie
	err := s.movies.FindOne(ctx, bson.M{"files.code": code}).Decode(&movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrCodeNotFound
		}
		return nil, nil, fmt.Errorf("find by code: %w", err)
	}

	for i := range movie.Files {
		if movie.Files[i].Code == code {
			return &movie, &movie.Files[i], nil
		}
	}

	return nil, nil, ErrCodeNotFound
}

// HasCode reports whether an access code is already minted anywhere in the
// catalog.
func (s *MovieStore) HasCode(ctx context.Context, code string) (bool, error) {
	err := s.movies.FindOne(ctx, bson.M{"files.code": code}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns a single movie by its hex id.
func (s *MovieStore) Get(ctx context.Context, id string) (*Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var movie Movie
	if err := s.movies.FindOne(ctx, bson.M{"_id": oid}).Decode(&movie); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}

	return &movie, nil
}

// ListParams narrows and pages the catalog listing.
type ListParams struct {
	Query   string
	Type    string
	Page    int
	PerPage int

	// SortByID sorts newest-inserted first instead of recently-updated first.
	SortByID bool
}

// List returns one page of movies plus the total match count.
func (s *MovieStore) List(ctx context.Context, params ListParams) ([]Movie, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 20
	}

	filter := bson.M{}
	if params.Query != "" {
		filter["title"] = bson.M{"$regex": params.Query, "$options": "i"}
	}
	if params.Type != "" {
		filter["type"] = params.Type
	}

	total, err := s.movies.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	sort := bson.D{{Key: "updated_at", Value: -1}}
	if params.SortByID {
		sort = bson.D{{Key: "_id", Value: -1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((params.Page - 1) * params.PerPage)).
		SetLimit(int64(params.PerPage))

	cursor, err := s.movies.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer cursor.Close(ctx)

	movies := make([]Movie, 0, params.PerPage)
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, 0, fmt.Errorf("decode movies: %w", err)
	}

	return movies, total, nil
}

// Featured returns the newest entries that have a backdrop image.
func (s *MovieStore) Featured(ctx context.Context, limit int) ([]Movie, error) {
	filter := bson.M{"backdrop": bson.M{"$nin": bson.A{nil, ""}}}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.movies.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("featured movies: %w", err)
	}
	defer cursor.Close(ctx)

	var movies []Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode featured movies: %w", err)
	}

	return movies, nil
}

// UpdateMovieParams carries the admin-editable descriptive fields.
type UpdateMovieParams struct {
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
	Trailer     string   `json:"trailer"`
	Language    string   `json:"language"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
}

// Update overwrites the descriptive fields of an existing movie.
func (s *MovieStore) Update(ctx context.Context, id string, params UpdateMovieParams) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"title":        params.Title,
		"overview":     params.Overview,
		"poster":       params.Poster,
		"backdrop":     params.Backdrop,
		"release_date": params.ReleaseDate,
		"vote_average": params.VoteAverage,
		"genres":       params.Genres,
		"trailer":      params.Trailer,
		"language":     params.Language,
		"type":         params.Type,
		"category":     params.Category,
		"updated_at":   time.Now().UTC(),
	}}

	res, err := s.movies.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrMovieNotFound
	}

	return nil
}

// Delete removes a movie and all its files from the catalog.
func (s *MovieStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.movies.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrMovieNotFound
	}

	return nil
}
