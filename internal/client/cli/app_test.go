package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetStatus(t *testing.T) {
	f := &fakeClient{}
	app, _ := newTestApp(f, "")

	assert.Equal(t, "", app.getStatus())

	app.setMode(ModeOnline)
	assert.Equal(t, "(online)", app.getStatus())

	app.userName = "alice"
	assert.Equal(t, "(online)", app.getStatus(), "name shown only while logged in")

	f.loggedIn = true
	assert.Equal(t, "(alice online)", app.getStatus())
}

func TestCheckOnline(t *testing.T) {
	f := &fakeClient{}
	app, _ := newTestApp(f, "")

	app.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, app.Mode())

	f.pingErr = errors.New("down")
	app.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, app.Mode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	f := &fakeClient{}
	app, _ := newTestApp(f, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_ClosesClient(t *testing.T) {
	captureOutput(t)
	f := &fakeClient{}
	app, _ := newTestApp(f, "exit\n")
	app.config.OnlineCheckInterval = 0

	app.Run(context.Background())
	assert.True(t, f.closed)
}

func TestCallCtx_AppliesTimeout(t *testing.T) {
	app, _ := newTestApp(&fakeClient{}, "")
	app.config.RequestTimeout = time.Minute

	ctx, cancel := app.callCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
