package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateAndResend(t *testing.T) {
	f := &fakeClient{loggedIn: true}
	app, out := newTestApp(f, "")

	require.NoError(t, app.Activate(context.Background()))
	require.NoError(t, app.ResendActivation(context.Background()))

	assert.True(t, f.activated)
	assert.True(t, f.resent)
	assert.Contains(t, out.String(), "Account activated")
	assert.Contains(t, out.String(), "Activation code sent")
}

func TestShow(t *testing.T) {
	f := &fakeClient{loggedIn: true, account: &client.Account{
		ID: "u1", UserName: "alice", Mail: "alice@example.com", FirstName: "Alice",
		Roles: []string{"Admin", "Visitor"}, AccountActivated: true,
	}}
	app, out := newTestApp(f, "")

	require.NoError(t, app.Show(context.Background(), "u1"))
	assert.Equal(t, "u1", f.getID)
	assert.Contains(t, out.String(), "alice@example.com")
	assert.Contains(t, out.String(), "Admin, Visitor")
	assert.Contains(t, out.String(), "Activated:  true")
}

func TestShow_Error(t *testing.T) {
	f := &fakeClient{loggedIn: true, getErr: client.ErrForbidden}
	app, _ := newTestApp(f, "")

	require.ErrorIs(t, app.Show(context.Background(), "other"), client.ErrForbidden)
}

func TestDeleteAccount(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		stubInputs(t, []string{"yes"}, nil)
		f := &fakeClient{loggedIn: true}
		app, out := newTestApp(f, "")
		app.userName = "alice"

		require.NoError(t, app.DeleteAccount(context.Background()))
		assert.True(t, f.deleted)
		assert.Empty(t, app.userName)
		assert.Contains(t, out.String(), "Account deleted")
	})

	t.Run("cancelled", func(t *testing.T) {
		stubInputs(t, []string{"no"}, nil)
		f := &fakeClient{loggedIn: true}
		app, _ := newTestApp(f, "")

		require.ErrorIs(t, app.DeleteAccount(context.Background()), errCancelled)
		assert.False(t, f.deleted)
	})
}

func TestArchive(t *testing.T) {
	f := &fakeClient{loggedIn: true, archiveN: 1}
	app, out := newTestApp(f, "u1, bogus\n")

	require.NoError(t, app.Archive(context.Background()))
	assert.Equal(t, []string{"u1", "bogus"}, f.archived)
	assert.Contains(t, out.String(), "Archived 1 of 2")
}

func TestArchive_Empty(t *testing.T) {
	f := &fakeClient{loggedIn: true}
	app, out := newTestApp(f, "\n")

	require.NoError(t, app.Archive(context.Background()))
	assert.Nil(t, f.archived)
	assert.Contains(t, out.String(), "Nothing to archive")
}
