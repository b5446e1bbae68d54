package cli

import (
	"context"
	"testing"
)

func TestServeRejectsBadURLs(t *testing.T) {
	for _, args := range [][]string{
		{"serve", "--redis", "localhost:6379"},
		{"serve", "--mongo", "postgres://db"},
	} {
		if err := execute(t, nil, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := New(discard{}, LogInfo).RootCommand()
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--no-cache"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Errorf("serve after cancel = %v, want clean shutdown", err)
	}
}
