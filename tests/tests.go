// Package tests contains shared helpers for the test suites of the other packages.
package tests

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/roster-app/roster/core"
	"github.com/roster-app/roster/sqlite"
)

var Faker = gofakeit.New(rand.Uint64())

// DB opens a fresh sqlite database in a test-scoped temporary directory and
// runs all migrations against it. The database is removed together with the
// temporary directory when the test finishes.
func DB(t *testing.T) *sqlite.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, filepath.Join(t.TempDir(), "roster_test.db"))
	if err != nil {
		t.Fatalf("cannot open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("cannot close test database: %v", err)
		}
	})

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("cannot migrate test database: %v", err)
	}

	return db
}

// DeleteAllUsers removes every user through the repository port.
func DeleteAllUsers(t *testing.T, repo core.UserRepository) {
	t.Helper()
	ctx := context.Background()
	users, err := repo.ListUsers(ctx)
	Check(t, err)
	for _, user := range users {
		Check(t, repo.DeleteUser(ctx, user.ID))
	}
}

// CreateRegularUser persists a user with fake data and returns it.
func CreateRegularUser(t *testing.T, repo core.UserRepository) *core.User {
	t.Helper()
	ctx := context.Background()

	email, err := core.ParseEmailAddress(Faker.Email())
	Check(t, err)

	id, err := repo.CreateUser(ctx, core.NewUser{
		Name:  Faker.Name(),
		Email: email,
		Role:  core.RoleUser,
	})
	Check(t, err)

	user, err := repo.GetUser(ctx, id)
	Check(t, err)
	return user
}

func Check(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
