package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjg/skeduleslive-streamlit/internal/config"
	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
	"github.com/bjg/skeduleslive-streamlit/tools"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and the operation catalog without making network calls",
		RunE:  runCheck,
	}
}

func runCheck(_ *cobra.Command, _ []string) error {
	failed := 0
	report := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Printf("ok    %s\n", name)
	}

	cfg, err := config.Load()
	report("configuration", err)
	if err != nil {
		return fmt.Errorf("%d check(s) failed", failed)
	}

	client, err := skedules.New(cfg.ClientConfig())
	report("service client", err)

	if client != nil {
		catalog := tools.Catalog(client)
		if err := tools.Verify(catalog); err != nil {
			report("operation catalog", err)
		} else {
			report(fmt.Sprintf("operation catalog (%d operations)", len(catalog)), nil)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
