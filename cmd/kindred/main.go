// Package main provides the kindred CLI entry point.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kindred/internal/dialog"
	"kindred/internal/kb"
	"kindred/internal/logging"
)

var (
	// Global flags
	verbose   bool
	seedPath  string
	watchSeed bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kindred",
	Short: "kindred - deductive family knowledge base",
	Long: `kindred is an in-memory deductive knowledge base for family
relationships. Facts you tell it are checked for consistency before
they are learned, and questions are answered by deduction over the
stored parent and gender facts.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(workspace); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		// The interactive chat owns the terminal; keep zap quiet there.
		if cmd.CalledAs() == "kindred" {
			logger = zap.NewNop()
			return nil
		}
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// tellCmd asserts a single fact
var tellCmd = &cobra.Command{
	Use:   "tell [sentence]",
	Short: "Tell the knowledge base one fact",
	Long: `Asserts one fact stated in plain English and reports whether it was
learned or rejected.

Example:
  kindred tell "alice is the mother of bob"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := newKnowledgeBase()
		if err != nil {
			return err
		}
		sentence := strings.Join(args, " ")
		a, ok := dialog.ParseStatement(sentence)
		if !ok {
			return fmt.Errorf("could not parse %q as a fact", sentence)
		}
		res, err := k.Assert(a)
		if err != nil {
			return err
		}
		fmt.Println(dialog.RenderResult(res))
		if !res.Accepted {
			return fmt.Errorf("fact rejected")
		}
		return nil
	},
}

// askCmd answers a single question
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge base one question",
	Long: `Answers one question against the seeded knowledge base.

Example:
  kindred ask --seed family.yaml "who are the children of alice?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := newKnowledgeBase()
		if err != nil {
			return err
		}
		q := strings.Join(args, " ")
		if !strings.HasSuffix(strings.TrimSpace(q), "?") {
			q += "?"
		}
		r := dialog.NewResponder(k)
		fmt.Println(r.Process(q))
		return nil
	},
}

// statsCmd prints fact counts
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored fact counts per predicate",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := newKnowledgeBase()
		if err != nil {
			return err
		}
		stats := k.Stats()
		preds := make([]string, 0, len(stats))
		for p := range stats {
			preds = append(preds, p)
		}
		sort.Strings(preds)
		for _, p := range preds {
			fmt.Printf("%-8s %d\n", p, stats[p])
		}
		fmt.Printf("%-8s %d\n", "total", k.FactCount())
		if verbose {
			for _, f := range k.Facts() {
				fmt.Printf("  %s(%s)\n", f.Pred, strings.Join(f.Args, ", "))
			}
		}
		return nil
	},
}

// newKnowledgeBase builds the knowledge base shared by all commands,
// applying the seed file when one was given.
func newKnowledgeBase() (*kb.KnowledgeBase, error) {
	k := kb.New(kb.WithLogger(logger))
	if seedPath == "" {
		return k, nil
	}
	report, err := k.LoadSeed(seedPath)
	if err != nil {
		return nil, err
	}
	for _, line := range report.Rejections {
		fmt.Fprintf(os.Stderr, "seed: rejected %s\n", line)
	}
	return k, nil
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML seed file applied on startup")
	rootCmd.PersistentFlags().BoolVar(&watchSeed, "watch", false, "Re-apply the seed file when it changes (chat mode)")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "Workspace directory for logs and config")

	rootCmd.AddCommand(tellCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
