package main

import (
	"encoding/json"
	"io"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "leadgen-engine"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "leadgen-engine collects company leads, scores them and reports on lead quality",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// .env is optional
	_ = godotenv.Load()

	if err := viper.BindEnv("data-dir", "LEADGEN_DATA_DIR"); err != nil {
		log.Fatalf("binding LEADGEN_DATA_DIR environment variable: %v", err)
	}
	if err := viper.BindEnv("shutdown-token", "LEADGEN_SHUTDOWN_TOKEN"); err != nil {
		log.Fatalf("binding LEADGEN_SHUTDOWN_TOKEN environment variable: %v", err)
	}
	viper.SetDefault("data-dir", ".")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is config.yml in the data dir)")
	pf.String("data-dir", "", "directory holding the database, config and lock files (env LEADGEN_DATA_DIR)")
	pf.BoolP("debug", "d", false, "verbose/debug output")
	pf.BoolP("json", "j", false, "json format for logging")

	for _, name := range []string{"config", "data-dir", "debug", "json"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			log.Fatalf("binding --%s: %v", name, err)
		}
	}

	rootCmd.AddCommand(serveCmd, runCmd, ingestCmd, scoreCmd, statsCmd, secretsCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
