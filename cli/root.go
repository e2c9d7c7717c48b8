// Package cli wires configuration, the database and the HTTP server into the
// flashgen command line.
package cli

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashgen-api/config"
)

type Flags struct {
	CfgFile string
}

// NewRootCommand builds the flashgen command tree.
func NewRootCommand() *cobra.Command {
	flags := &Flags{}

	rootCmd := &cobra.Command{
		Use:   "flashgen",
		Short: "Flashcard generation API",
		Long: `flashgen turns study text into flashcards with a generative model and
stores named flashcard sets per user.

Examples:
  flashgen serve                          # Run the HTTP API
  flashgen migrate                        # Create or update database tables
  flashgen generate --file notes.txt      # Print ten flashcards for a file
  flashgen token user_123                 # Issue a development bearer token`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is ./flashgen.yaml or $HOME/flashgen.yaml)")

	rootCmd.AddCommand(
		newServeCommand(flags),
		newMigrateCommand(flags),
		newGenerateCommand(flags),
		newTokenCommand(flags),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads .env outside production deployments.
func loadDotEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") != "" {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}
}

func loadConfig(flags *Flags) (*config.Config, error) {
	return config.Load(flags.CfgFile)
}

// loadDatabaseConfig is loadConfig for commands that connect to the database.
func loadDatabaseConfig(flags *Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.CfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}
