package users_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-library-server/users"
	fakeuserrepo "github.com/jrsteele09/go-library-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	// Fixed format: hex SHA-256, deterministic, no salt. The stored
	// hashes depend on this.
	require.Equal(t,
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		users.HashPassword("password"))

	require.True(t, users.CheckPasswordHash("password", users.HashPassword("password")))
	require.False(t, users.CheckPasswordHash("Password", users.HashPassword("password")))
}

func TestActive(t *testing.T) {
	active := users.User{Status: users.StatusActive}
	inactive := users.User{Status: users.StatusInactive}
	unset := users.User{}

	require.True(t, active.Active())
	require.False(t, inactive.Active())
	require.False(t, unset.Active())
}

func TestFakeUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Username: "checkout.desk", Role: users.RoleLibrarian, Status: users.StatusActive}
	require.NoError(t, repo.Upsert(ctx, u))
	require.NotZero(t, u.ID)

	byName, err := repo.GetByUsername(ctx, "checkout.desk")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "checkout.desk", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, users.ErrNotFound)

	require.NoError(t, repo.SetStatus(ctx, "checkout.desk", users.StatusInactive))
	byName, err = repo.GetByUsername(ctx, "checkout.desk")
	require.NoError(t, err)
	require.False(t, byName.Active())

	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "checkout.desk"))
	require.ErrorIs(t, repo.Delete(ctx, "checkout.desk"), users.ErrNotFound)
}

func TestFakeUserRepoListPaging(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	for _, name := range []string{"a.desk", "b.desk", "c.desk"} {
		require.NoError(t, repo.Upsert(ctx, &users.User{Username: name, Status: users.StatusActive}))
	}

	tests := []struct {
		name    string
		offset  int
		limit   int
		wantLen int
	}{
		{"all", 0, 10, 3},
		{"window", 1, 1, 1},
		{"offset past end", 5, 10, 0},
		{"negative offset", -1, 10, 3},
		{"negative limit", 0, -5, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := repo.List(ctx, tc.offset, tc.limit)
			require.NoError(t, err)
			require.Len(t, list, tc.wantLen)
		})
	}
}
