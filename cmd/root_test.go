package cmd

import (
	"testing"
)

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "chatctx" {
		t.Errorf("Use = %q, want chatctx", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected non-empty Short description")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "version": false}

	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestServeAddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	if flag == nil {
		t.Fatal("serve command missing --addr flag")
	}
	if flag.DefValue != "" {
		t.Errorf("addr default = %q, want empty (config wins)", flag.DefValue)
	}
}
