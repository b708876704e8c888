package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "SkedulesLive natural-language assistant",
		Long:          "Chat front-end for managing SkedulesLive schedules and events through a language model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChatCommand())
	root.AddCommand(newCheckCommand())
	return root
}
