// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/collegecrawl/internal/app"
	"github.com/law-makers/collegecrawl/internal/config"
)

const shutdownTimeout = 5 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "collegecrawl",
	Short: "Find Indian engineering colleges and extract their contact details",
	Long: `collegecrawl searches the web for engineering colleges in an Indian state,
visits each college website and extracts name, university, type, location,
branches, email and phone numbers.

Results can be exported to Excel, CSV or JSON.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command until it finishes or the process is interrupted.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil || !needsApp(cmd) {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		return openApp(cmd, cfg)
	}

	// Close the app after the command, whether or not it failed
	cobra.OnFinalize(func() {
		if closeApp != nil {
			closeApp()
			closeApp = nil
		}
	})
}

// closeApp releases the Application created for the running command.
var closeApp func()

func openApp(cmd *cobra.Command, cfg *config.Config) error {
	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	SetApp(cmd, application)
	closeApp = func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		SetApp(cmd, nil)
		if err := application.Close(ctx); err != nil {
			application.Logger.Warn().Err(err).Msg("Error during shutdown")
		}
	}
	return nil
}

// needsApp reports whether cmd talks to the network. Commands annotated with
// skipAppAnnotation only read static data.
func needsApp(cmd *cobra.Command) bool {
	_, skip := cmd.Annotations[skipAppAnnotation]
	return !skip
}

const skipAppAnnotation = "skip-app"

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for collegecrawl")
	rootCmd.Flags().Bool("version", false, "Version for collegecrawl")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		writeHelp(os.Stdout, cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		writeUsage(os.Stderr, cmd)
		return nil
	})
}
