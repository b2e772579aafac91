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

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

// QueryHook reports failed and slow statements through the setup logger.
// sql.ErrNoRows is not a failure for the bootstrap, so it is ignored.
type QueryHook struct {
	logger   Logger
	slowTime time.Duration
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook returns a hook that warns about statements slower than
// slowTime. A zero slowTime disables the slow query warning.
func NewQueryHook(logger Logger, slowTime time.Duration) *QueryHook {
	return &QueryHook{logger: logger, slowTime: slowTime}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if event.Err != nil {
		if errors.Is(event.Err, sql.ErrNoRows) {
			return
		}
		h.logger.Debug(color.New(color.FgRed).Sprintf("Query failed: %s", event.Operation()),
			"duration", duration.Round(time.Microsecond),
			"query", event.Query,
			"error", event.Err,
		)
		return
	}
	if h.slowTime > 0 && duration > h.slowTime {
		h.logger.Warn(color.New(color.FgYellow).Sprint("Database slow query detected"),
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
