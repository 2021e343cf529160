package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of the command tree to its default so
// tests that execute rootCmd do not leak flag values into each other
func resetFlags(t *testing.T) {
	t.Helper()

	var reset func(cmd *cobra.Command)
	reset = func(cmd *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{cmd.PersistentFlags(), cmd.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range cmd.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	t.Cleanup(func() { reset(rootCmd) })
}

// clearStoreEnv unsets the environment variables that select a store
func clearStoreEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{"DATABASE_URL", "SQLITE_PATH", "DAYS_TO_HIRE_BACKEND"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
