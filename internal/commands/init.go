package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/config"
)

func newInitCommand() *cobra.Command {
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finadvisor workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, provider, model)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "groq", "llm provider (openai, groq, ollama, gemini)")
	cmd.Flags().StringVar(&model, "model", "", "model name (defaults to the provider's)")

	return cmd
}

func runInit(out io.Writer, dir, provider, model string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if err := cfg.LLM.UseProvider(provider); err != nil {
		return err
	}
	if model != "" {
		cfg.LLM.Model = model
	}

	// Create directory structure.
	dirs := []string{
		cfg.Import.Dir,
		cfg.Import.ProcessedDir,
		"logs",
		filepath.Dir(cfg.Storage.Path),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write finadvisor.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Keep the database and secrets out of version control.
	gitignore := "data/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized finadvisor workspace at %s (llm: %s/%s)\n", dir, cfg.LLM.Provider, cfg.LLM.Model)
	if cfg.LLM.APIKeyEnv != "" {
		fmt.Fprintf(out, "Set %s in the environment or in %s\n", cfg.LLM.APIKeyEnv, filepath.Join(dir, ".env"))
	}
	return nil
}
