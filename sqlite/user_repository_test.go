package sqlite_test

import (
	"context"
	"testing"

	"github.com/roster-app/roster/core"
	"github.com/roster-app/roster/sqlite"
	"github.com/roster-app/roster/tests"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository(t *testing.T) {
	db := tests.DB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	t.Run("ok: create and get user", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		email, err := core.ParseEmailAddress(tests.Faker.Email())
		tests.Check(t, err)
		name := tests.Faker.Name()

		id, err := repo.CreateUser(ctx, core.NewUser{Name: name, Email: email, Role: core.RoleAdmin})
		tests.Check(t, err)
		assert.NotZero(t, id, "The repository should assign a non-zero id")

		user, err := repo.GetUser(ctx, id)
		tests.Check(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, name, user.Name)
		assert.Equal(t, email, user.Email)
		assert.Equal(t, core.RoleAdmin, user.Role)
		assert.Equal(t, core.StatusActive, user.Status, "New users should be active")
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("ok: repeated reads are idempotent", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		user := tests.CreateRegularUser(t, repo)

		again, err := repo.GetUser(ctx, user.ID)
		tests.Check(t, err)
		assert.Equal(t, user, again)
	})

	t.Run("err: create user without email", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, core.NewUser{Name: tests.Faker.Name(), Email: nil})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("err: create duplicate user", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		email, err := core.ParseEmailAddress(tests.Faker.Email())
		tests.Check(t, err)

		id1, err := repo.CreateUser(ctx, core.NewUser{Name: tests.Faker.Name(), Email: email})
		tests.Check(t, err)

		_, err = repo.CreateUser(ctx, core.NewUser{Name: tests.Faker.Name(), Email: email})
		assert.ErrorIs(t, err, core.ErrConflict, "The duplicate user should return ErrConflict")

		user, err := repo.GetUser(ctx, id1)
		tests.Check(t, err)
		assert.NotNil(t, user, "The first user should remain retrievable")
	})

	t.Run("err: get missing user", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		user, err := repo.GetUser(ctx, 424242)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("ok: list users is ordered by id and matches count", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		for range 5 {
			tests.CreateRegularUser(t, repo)
		}

		users, err := repo.ListUsers(ctx)
		tests.Check(t, err)
		amount, err := repo.CountUsers(ctx)
		tests.Check(t, err)
		assert.Len(t, users, int(amount))

		for i := 1; i < len(users); i++ {
			assert.Less(t, users[i-1].ID, users[i].ID, "Users should be ordered ascending by id")
		}
	})

	t.Run("ok: update replaces all fields", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		user := tests.CreateRegularUser(t, repo)

		email, err := core.ParseEmailAddress(tests.Faker.Email())
		tests.Check(t, err)
		user.Name = tests.Faker.Name()
		user.Email = email
		user.Role = core.RoleGuest
		user.Status = core.StatusSuspended

		tests.Check(t, repo.UpdateUser(ctx, user))

		updated, err := repo.GetUser(ctx, user.ID)
		tests.Check(t, err)
		assert.Equal(t, user.Name, updated.Name)
		assert.Equal(t, user.Email, updated.Email)
		assert.Equal(t, core.RoleGuest, updated.Role)
		assert.Equal(t, core.StatusSuspended, updated.Status)
	})

	t.Run("err: update missing user", func(t *testing.T) {
		email, err := core.ParseEmailAddress(tests.Faker.Email())
		tests.Check(t, err)
		err = repo.UpdateUser(ctx, &core.User{
			ID:     424242,
			Name:   tests.Faker.Name(),
			Email:  email,
			Role:   core.RoleUser,
			Status: core.StatusActive,
		})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("ok: delete user", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		user := tests.CreateRegularUser(t, repo)

		tests.Check(t, repo.DeleteUser(ctx, user.ID))

		missing, err := repo.GetUser(ctx, user.ID)
		assert.Nil(t, missing)
		assert.ErrorIs(t, err, core.ErrNotFound, "Getting a deleted user should return ErrNotFound")
	})

	t.Run("err: delete missing user", func(t *testing.T) {
		err := repo.DeleteUser(ctx, 424242)
		assert.ErrorIs(t, err, core.ErrNotFound, "Deleting an absent id should return ErrNotFound")
	})

	t.Run("ok: unknown role and status tags degrade to defaults", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		_, err := db.ExecContext(
			ctx,
			"INSERT INTO users (name, email, role, status, created_at) VALUES (?, ?, ?, ?, ?)",
			"Legacy Row", "legacy@example.com", "Editor", "Pending", "2020-01-01T00:00:00Z",
		)
		tests.Check(t, err)

		users, err := repo.ListUsers(ctx)
		tests.Check(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, core.RoleUser, users[0].Role, "Unknown roles should degrade to User")
		assert.Equal(t, core.StatusActive, users[0].Status, "Unknown statuses should degrade to Active")
	})

	t.Run("err: malformed stored timestamp", func(t *testing.T) {
		tests.DeleteAllUsers(t, repo)
		result, err := db.ExecContext(
			ctx,
			"INSERT INTO users (name, email, role, status, created_at) VALUES (?, ?, ?, ?, ?)",
			"Broken Row", "broken@example.com", "User", "Active", "yesterday",
		)
		tests.Check(t, err)
		id, err := result.LastInsertId()
		tests.Check(t, err)

		_, err = repo.GetUser(ctx, core.UserID(id))
		assert.ErrorIs(t, err, core.ErrInvalidOperation)
	})
}
