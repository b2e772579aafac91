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

package setup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

// User is a row of the users table.
//
// PasswordHash holds whatever the seed wrote there; the seed account stores
// plain text.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Email        string    `bun:"email,type:varchar(255),notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,type:varchar(255),notnull" json:"-"`
	Name         string    `bun:"name,type:varchar(100),nullzero" json:"name,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// SeedUser is the test account written on first run.
type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

const (
	TestEmail    = "teste@ecostock.com"
	TestPassword = "123456"
	TestName     = "Admin Teste"
)

// DefaultSeedUser returns the fixed test account.
func DefaultSeedUser() SeedUser {
	return SeedUser{Email: TestEmail, Password: TestPassword, Name: TestName}
}

// LoadSeedUser reads a YAML seed file. Fields left empty in the file keep the
// default test account values.
func LoadSeedUser(path string) (SeedUser, error) {
	seed := DefaultSeedUser()
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("failed to read seed file: %w", err)
	}
	var fromFile SeedUser
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return seed, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if v := strings.TrimSpace(fromFile.Email); v != "" {
		seed.Email = v
	}
	if fromFile.Password != "" {
		seed.Password = fromFile.Password
	}
	if v := strings.TrimSpace(fromFile.Name); v != "" {
		seed.Name = v
	}
	return seed, nil
}

func (s SeedUser) toUser() *User {
	return &User{
		Email:        s.Email,
		PasswordHash: s.Password,
		Name:         s.Name,
	}
}
