package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/pkg/cmd/root"
)

func Execute() {
	ctx := context.Background()

	s, err := state.NewState(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	rootCmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		s.Close()
		os.Exit(1)
	}
}
