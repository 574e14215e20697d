package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"leadgen-engine/internal/events"
	"leadgen-engine/internal/scrape/file"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest raw leads from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		path := args[0]
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		raws, err := file.Decode(b, filepath.Ext(path))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i := range raws {
			raws[i].Source = "file:" + filepath.Base(path)
		}

		res, err := a.ingestor.Ingest(cmd.Context(), raws)
		if err != nil {
			return err
		}
		a.hub.Emit("", events.TypeLeadsIngested, res)
		return printJSON(cmd.OutOrStdout(), res)
	},
}
