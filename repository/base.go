/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository exposes the operations the setup procedure needs on a table
// model T.
type Repository[T any] interface {
	// CreateTable creates the table for T unless it already exists.
	CreateTable(ctx context.Context) error

	// Exists reports whether a row matches the condition.
	Exists(ctx context.Context, query string, args ...interface{}) (bool, error)

	// Count returns the number of rows matching the condition. An empty query
	// counts every row.
	Count(ctx context.Context, query string, args ...interface{}) (int, error)

	// FindOne returns the first row matching the condition.
	FindOne(ctx context.Context, query string, args ...interface{}) (*T, error)

	// Create inserts one or more entities.
	Create(ctx context.Context, entity ...*T) error
}

type baseRepositoryImpl[T any] struct {
	db bun.IDB
}

// NewRepository returns a generic repository backed by the provided Bun
// handle, which may be a *bun.DB or a bun.Tx.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*T)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	return r.db.NewSelect().Model((*T)(nil)).Where(query, args...).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, query string, args ...interface{}) (int, error) {
	q := r.db.NewSelect().Model((*T)(nil))
	if query != "" {
		q = q.Where(query, args...)
	}
	return q.Count(ctx)
}

func (r *baseRepositoryImpl[T]) FindOne(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where(query, args...).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 1 {
		_, err := r.db.NewInsert().Model(entity[0]).Exec(ctx)
		return err
	}
	entities := make([]*T, len(entity))
	copy(entities, entity)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}
