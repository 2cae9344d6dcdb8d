package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/activity"
	"github.com/cleared-dev/finadvisor/internal/advisor"
	"github.com/cleared-dev/finadvisor/internal/llm"
	"github.com/cleared-dev/finadvisor/internal/search"
)

func newAskCommand(opts *rootOptions) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the financial advisor about your transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive && len(args) == 0 {
				return errors.New("a question is required unless --interactive is set")
			}
			ws, err := openWorkspace(opts.dir)
			if err != nil {
				return err
			}
			return runAsk(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), ws, strings.Join(args, " "), interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start a chat session")

	return cmd
}

func runAsk(ctx context.Context, in io.Reader, out io.Writer, ws *workspace, question string, interactive bool) error {
	st, err := ws.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	txns, err := st.All(ctx)
	if err != nil {
		return err
	}

	ix, err := search.NewIndex()
	if err != nil {
		return err
	}
	defer ix.Close()
	if err := ix.Add(txns); err != nil {
		return err
	}

	client, err := llm.NewChatClient(ws.cfg.LLM, ws.cfg.LLM.APIKey())
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	rec := activity.NewRecorder("ask")
	defer ws.flushActivity(ctx, rec)

	tb := advisor.NewToolbox()
	advisor.NewDataTools(txns, ix).Register(tb)
	agent := advisor.New(client, tb, advisor.Options{
		Model:        ws.cfg.LLM.Model,
		Temperature:  ws.cfg.LLM.Temperature,
		MaxToolSteps: ws.cfg.LLM.MaxToolSteps,
		OnToolCall: func(name, arguments, _ string) {
			rec.Record("tool_call", name, arguments, 0)
		},
	})

	if question != "" {
		if err := answer(ctx, out, agent, question); err != nil {
			return err
		}
	}
	if !interactive {
		return nil
	}
	return chat(ctx, in, out, agent)
}

func answer(ctx context.Context, out io.Writer, agent *advisor.Agent, question string) error {
	reply, err := agent.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("asking advisor: %w", err)
	}
	fmt.Fprintln(out, reply)
	return nil
}

// chat reads questions line by line until EOF or "exit". "reset" clears the
// conversation memory.
func chat(ctx context.Context, in io.Reader, out io.Writer, agent *advisor.Agent) error {
	fmt.Fprintln(out, "Ask about your finances. Type reset to start over, exit to quit.")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "reset":
			agent.Reset()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}
		if err := answer(ctx, out, agent, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	fmt.Fprintln(out)
	return sc.Err()
}
