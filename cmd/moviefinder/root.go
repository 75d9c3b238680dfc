package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/moviefinder/internal/app"
	"github.com/varoOP/moviefinder/internal/config"
	"github.com/varoOP/moviefinder/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moviefinder",
	Short: "Search and browse movies, offline first",
	Long: `moviefinder searches a remote movie catalog (OMDb or IMDb) and serves
results from a local SQLite cache first. Movie details viewed with get are
cached, so browsing and details of those movies keep working without a network.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.moviefinder.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().String("database-dir", ".", "directory holding moviefinder.db")
	rootCmd.PersistentFlags().String("provider", "omdb", "remote catalog: 'omdb' or 'imdb'")
	rootCmd.PersistentFlags().Int("page-size", 10, "number of movies per page")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("database_dir", rootCmd.PersistentFlags().Lookup("database-dir"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("page_size", rootCmd.PersistentFlags().Lookup("page-size"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.LoadEnvFiles(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the current directory, then the home directory
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	err := viper.ReadInConfig()
	if err != nil && cfgFile == "" {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".moviefinder")
			err = viper.ReadInConfig()
		}
	}
	if err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newApp loads the configuration and initializes the application.
func newApp() (*app.App, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLoggerWithLevel(cfg.LogLevel)

	application, err := app.NewApp(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
