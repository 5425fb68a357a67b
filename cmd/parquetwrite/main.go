// Command parquetwrite reads newline-delimited JSON records and a
// JSON/YAML schema description from disk, shreds them against a Writer,
// and produces a single columnar file.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dataflowlabs/parquetcore/pkg/compression"
	"github.com/dataflowlabs/parquetcore/pkg/logger"
	"github.com/dataflowlabs/parquetcore/pkg/parquet"
	"github.com/dataflowlabs/parquetcore/pkg/schemadef"
	"github.com/dataflowlabs/parquetcore/pkg/writercfg"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "parquetwrite",
		Short: "parquetwrite writes newline-delimited JSON records into a columnar file",
	}

	root.AddCommand(newVersionCmd(), newWriteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("parquetwrite v%s\n", version)
		},
	}
}

func newWriteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a newline-delimited JSON record stream into a columnar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(v)
		},
	}

	flags := cmd.Flags()
	flags.String("schema", "", "Path to a JSON or YAML schema description (required)")
	flags.String("records", "", "Path to a newline-delimited JSON record file (required)")
	flags.String("out", "", "Path to the output file (required)")
	flags.String("config", "", "Path to a writer configuration YAML file (optional, overrides defaults)")
	flags.Int64("block-size", 0, "Row group size in bytes, overriding the config file's value when > 0")
	flags.Int64("page-size", 0, "Page size in bytes, overriding the config file's value when > 0")
	flags.String("compression", "", "Compression algorithm: none, snappy, gzip, lz4, zstd, s2, deflate")
	flags.Bool("enable-dictionary", true, "Enable dictionary encoding")
	flags.Bool("validating", false, "Enable redundant shredding-invariant validation")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")

	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("records")
	_ = cmd.MarkFlagRequired("out")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("PARQUETWRITE")
	v.AutomaticEnv()

	return cmd
}

func runWrite(v *viper.Viper) error {
	if err := logger.Init(logger.Config{Level: v.GetString("log-level"), Encoding: "json"}); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	log := logger.Get().With(zap.String("component", "parquetwrite"))

	schemaBytes, err := os.ReadFile(v.GetString("schema"))
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}
	sch, err := schemadef.Parse(schemaBytes)
	if err != nil {
		return fmt.Errorf("parse schema description: %w", err)
	}

	cfg, err := loadWriterConfig(v)
	if err != nil {
		return err
	}

	recordsFile, err := os.Open(v.GetString("records"))
	if err != nil {
		return fmt.Errorf("open records file: %w", err)
	}
	defer recordsFile.Close()

	sink, err := parquet.CreateFileSink(v.GetString("out"))
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	w, err := parquet.NewWriter(sink, sch, cfg)
	if err != nil {
		return fmt.Errorf("open writer: %w", err)
	}

	src := newNDJSONSource(recordsFile, sch.Root)
	defer src.Close()

	log.Info("writing records",
		zap.String("schema", v.GetString("schema")),
		zap.String("records", v.GetString("records")),
		zap.String("out", v.GetString("out")),
		zap.String("writer.session_id", w.SessionID()))

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := w.WriteAll(ctx, src); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}

	log.Info("write complete", zap.Duration("duration", time.Since(start)))
	return nil
}

func loadWriterConfig(v *viper.Viper) (*writercfg.Config, error) {
	var cfg *writercfg.Config
	if path := v.GetString("config"); path != "" {
		loaded, err := writercfg.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load writer config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = writercfg.Default()
	}

	if bs := v.GetInt64("block-size"); bs > 0 {
		cfg.BlockSize = bs
	}
	if ps := v.GetInt64("page-size"); ps > 0 {
		cfg.PageSize = ps
	}
	if c := v.GetString("compression"); c != "" {
		cfg.Compression = compression.Algorithm(c)
	}
	cfg.EnableDictionary = v.GetBool("enable-dictionary")
	cfg.Validating = v.GetBool("validating")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid writer configuration: %w", err)
	}
	return cfg, nil
}
