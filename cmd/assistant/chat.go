package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/bjg/skeduleslive-streamlit/internal/config"
	"github.com/bjg/skeduleslive-streamlit/internal/provider"
	"github.com/bjg/skeduleslive-streamlit/internal/runner"
	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
	"github.com/bjg/skeduleslive-streamlit/session"
	"github.com/bjg/skeduleslive-streamlit/tools"
)

// fatalTurnReply is shown when a turn aborts for reasons the model never saw.
const fatalTurnReply = "Sorry, your request could not be completed. Please try again."

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := skedules.New(cfg.ClientConfig())
	if err != nil {
		return err
	}
	catalog := tools.Catalog(client)
	if err := tools.Verify(catalog); err != nil {
		return err
	}

	r := runner.New(provider.NewAnthropicClient(), catalog, provider.ResolveModel(cfg.Model))
	if cfg.MaxRounds > 0 {
		r.MaxRounds = cfg.MaxRounds
	}

	sess := session.New()
	r.OnResult = func(op string, failed bool, _ string) {
		_ = sess.Append(session.Message{Role: session.RoleOperationResult, Operation: op, Failed: failed})
		if failed {
			fmt.Printf("  [%s failed]\n", op)
		} else {
			fmt.Printf("  [%s ok]\n", op)
		}
	}

	var conv []anthropic.MessageParam

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("SkedulesLive assistant (Ctrl-C to quit, /reset to clear, /history to review)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}
		if strings.TrimSpace(user) == "/reset" {
			conv = nil
			sess.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}
		if strings.TrimSpace(user) == "/history" {
			for _, m := range sess.Messages() {
				if m.Role == session.RoleOperationResult {
					status := "ok"
					if m.Failed {
						status = "failed"
					}
					fmt.Printf("  %s  [%s %s]\n", m.Time.Format("15:04:05"), m.Operation, status)
					continue
				}
				fmt.Printf("  %s  %s: %s\n", m.Time.Format("15:04:05"), m.Role, m.Text)
			}
			continue
		}

		_ = sess.Append(session.Message{Role: session.RoleUser, Text: user})

		updated, reply, err := r.RunTurn(ctx, conv, user)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break outer
			}
			// Turn-fatal errors surface a generic message; the details go to
			// stderr, never into the transcript.
			fmt.Fprintf(os.Stderr, "turn error: %v\n", err)
			_ = sess.Append(session.Message{Role: session.RoleAssistant, Text: fatalTurnReply})
			fmt.Printf("\u001b[93mAssistant\u001b[0m: %s\n", fatalTurnReply)
			continue
		}
		conv = updated
		_ = sess.Append(session.Message{Role: session.RoleAssistant, Text: reply})
		fmt.Printf("\u001b[93mAssistant\u001b[0m: %s\n", reply)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
	return nil
}
