// Package main provides the gwas-report command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gwas-report",
		Short:   "Annotate genomic variants with GWAS catalog trait associations",
		Long:    "gwas-report maps variants from a VCF file to GWAS catalog trait associations\nand prepares the data artifacts consumed by the report renderer.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Example: `  # One-time setup: fetch the GWAS catalog
  gwas-report download

  # Annotate a VCF file and build the report data
  gwas-report annotate --vcf sample.vcf.gz --gwas catalog.csv.gz --out results/`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.gwas-report.yaml and environment overrides.
func initConfig() error {
	viper.SetConfigName(".gwas-report")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("GWAS_REPORT")
	viper.AutomaticEnv()

	viper.SetDefault("annotate.qual-cutoff", 20.0)
	viper.SetDefault("annotate.drop-nr", true)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds the CLI logger writing to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
