package main

import (
	"encoding/json"
	"fmt"
	"io"

	"bringlist/internal/app"
	"bringlist/internal/config"
	"bringlist/internal/db"
	"bringlist/internal/repository/document"
	"bringlist/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored document",
		Long: `Print the whole document (catalog and lists) to stdout.

Safe to run while the server is up: the file store is replaced with an
atomic rename, so a read never sees a partial write. When nothing has been
stored yet the seed catalog is written first, under the writer lock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(cmd.ErrOrStderr(), zapcore.WarnLevel, "text")

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}

			store, dbConn, err := app.OpenStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
				if dbConn != nil {
					_ = db.Close(dbConn)
				}
			}()

			doc, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}
			return writeDocument(cmd.OutOrStdout(), doc, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json|yaml")
	return cmd
}

func writeDocument(w io.Writer, doc document.Database, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
