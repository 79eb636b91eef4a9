package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/api"
	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/inference"
	"github.com/nidhogg/agentmatch/internal/recommend"
)

const shutdownTimeout = 10 * time.Second

var configFile string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "agentmatch",
		Short: "Recommend coding-assistant agents for a task description",
		Long: `agentmatch classifies a free-text coding task, scores a catalog of
coding-assistant agents against it and returns a ranked, explained list.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to JSON config file (default $CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(calcCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, logger and components for a command.
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return nil, err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}
	return a, nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			defer a.Close()

			if port == 0 {
				port = a.cfg.Server.Port
			}
			return serve(a, port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func serve(a *app, port int) error {
	logger := a.logger
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Catalog.Watch && a.cfg.Catalog.Path != "" {
		go func() {
			if err := catalog.Watch(ctx, a.cfg.Catalog.Path, a.store, a.reloadCatalog, logger); err != nil {
				logger.Error("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	handler := api.NewHandler(a.svc, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("agentmatch listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down agentmatch")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func recommendCmd() *cobra.Command {
	var (
		language   string
		complexity string
		top        int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [description]",
		Short: "Rank the catalog agents for a task description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			defer a.Close()

			recs, err := a.svc.Recommend(cmd.Context(), recommend.TaskRequest{
				Description: args[0],
				Language:    language,
				Complexity:  complexity,
			})
			if err != nil {
				return err
			}
			if top > 0 && top < len(recs) {
				recs = recs[:top]
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			printRecommendations(cmd.OutOrStdout(), recs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "programming language hint")
	cmd.Flags().StringVarP(&complexity, "complexity", "c", "medium", "task complexity: low, medium or high")
	cmd.Flags().IntVar(&top, "top", 0, "show only the first n agents")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		language   string
		complexity string
	)

	cmd := &cobra.Command{
		Use:   "analyze [description]",
		Short: "Show how a task description is classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			defer a.Close()

			analysis, err := a.svc.Analyze(cmd.Context(), recommend.TaskRequest{
				Description: args[0],
				Language:    language,
				Complexity:  complexity,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"task_type":          analysis.TaskType,
				"required_skills":    analysis.RequiredSkills,
				"detected_languages": analysis.DetectedLanguages,
				"complexity":         analysis.Complexity,
				"complexity_signal":  analysis.ComplexitySignal,
				"triggers":           analysis.Triggers,
			})
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "programming language hint")
	cmd.Flags().StringVarP(&complexity, "complexity", "c", "medium", "task complexity: low, medium or high")
	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLANGUAGES\tFEATURES")
			for _, p := range a.store.Load().List() {
				langs := "any"
				if !p.LanguageAgnostic() {
					langs = strings.Join(p.SupportedLanguages, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, langs, len(p.FeatureTags))
			}
			return w.Flush()
		},
	}
}

func calcCmd() *cobra.Command {
	var req inference.Request

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Estimate LLM inference latency, memory and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := inference.Calculate(req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar((*string)(&req.ModelSize), "model", string(inference.Model7B), "model size: 7B, 13B or GPT-4")
	cmd.Flags().IntVar(&req.InputTokens, "input", 0, "input tokens")
	cmd.Flags().IntVar(&req.OutputTokens, "output", 0, "output tokens")
	cmd.Flags().IntVar(&req.BatchSize, "batch", 1, "batch size")
	cmd.Flags().StringVar((*string)(&req.HardwareType), "hardware", string(inference.GPU), "hardware: cpu, gpu or tpu")
	cmd.Flags().StringVar((*string)(&req.DeploymentMode), "deployment", string(inference.Cloud), "deployment: cloud, on_prem or edge")
	return cmd
}

func printRecommendations(out io.Writer, recs []recommend.AgentRecommendation) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tAGENT\tSCORE\tEXPLANATION")
	for i, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", i+1, r.Name, r.Score, r.Explanation)
	}
	w.Flush()

	if len(recs) > 0 {
		an := recs[0].Analysis
		fmt.Fprintf(out, "\ntask type: %s\nrequired skills: %s\n", an.TaskType, strings.Join(an.RequiredSkills, ", "))
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
