// Copyright 2025 Emiliano Spinella (eminwux)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package bytefilter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/eminwux/bytefilter/cmd/config"
	"github.com/eminwux/bytefilter/internal/errdefs"
	"github.com/eminwux/bytefilter/internal/filter"
	"github.com/eminwux/bytefilter/internal/logging"
	"github.com/eminwux/bytefilter/internal/metadata"
	"github.com/eminwux/bytefilter/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// UsageFormat is printed, with the program name, after every usage error.
const UsageFormat = "Usage: %s -i input_file -o output_file -f filter"

const (
	flagInput  = "input"
	flagOutput = "output"
	flagFilter = "filter"
)

func NewBytefilterRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:   "bytefilter -i input_file -o output_file -f filter",
		Short: "Apply a byte filter to a file",
		Long: `bytefilter reads a file, applies a byte-by-byte filter and writes the result.

The file is printed before and after the transformation. When the input and
output paths are the same the file is rewritten in place.

Filters:
  upper   ASCII uppercase
  lower   ASCII lowercase
  null    copy bytes unchanged

Examples:
  bytefilter -i notes.txt -o NOTES.txt -f upper
  bytefilter -i notes.txt -o notes.txt -f lower
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noPositionalArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkRequiredFlags(cmd.Flags()); err != nil {
				return err
			}

			if err := LoadConfig(); err != nil {
				return fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
			}

			if logFile := viper.GetString(config.BYTEFILTER_LOG_FILE.ViperKey); logFile != "" {
				if err := logging.SetupFileLogger(
					cmd,
					logFile,
					viper.GetString(config.BYTEFILTER_LOG_LEVEL.ViperKey),
				); err != nil {
					return fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			opts, err := buildOptions(cmd.Flags())
			if err != nil {
				return err
			}

			logger.DebugContext(
				cmd.Context(), "parameters received in bytefilter",
				"configFile", viper.ConfigFileUsed(),
				"logLevel", viper.GetString(config.BYTEFILTER_LOG_LEVEL.ViperKey),
				"logFile", viper.GetString(config.BYTEFILTER_LOG_FILE.ViperKey),
				"metadataFile", viper.GetString(config.BYTEFILTER_METADATA_FILE.ViperKey),
			)
			if logger.Enabled(cmd.Context(), slog.LevelDebug) {
				logger.DebugContext(cmd.Context(), "resolved options", "options", spew.Sdump(opts))
			}

			return runFilter(
				cmd.Context(),
				logger,
				cmd.OutOrStdout(),
				cmd.ErrOrStderr(),
				opts,
				viper.GetString(config.BYTEFILTER_METADATA_FILE.ViperKey),
			)
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			if c, _ := cmd.Context().Value(logging.CtxCloser).(io.Closer); c != nil {
				_ = c.Close()
			}
			return nil
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w: %w", errdefs.ErrUsage, errdefs.ErrInvalidFlag, err)
	})

	setupRootCmd(rootCmd)

	return rootCmd
}

func setupRootCmd(rootCmd *cobra.Command) {
	fs := rootCmd.Flags()
	fs.SortFlags = false

	fs.StringP(flagInput, "i", "", "Input file path (required)")
	fs.StringP(flagOutput, "o", "", "Output file path (required)")
	fs.StringP(flagFilter, "f", "", "Filter to apply: upper, lower or null (required)")

	fs.String(config.BYTEFILTER_CONFIG_FILE.CobraKey, "",
		"config file (default is "+config.DefaultConfigFile()+")")
	fs.String(config.BYTEFILTER_LOG_LEVEL.CobraKey, "", "Log level (debug, info, warn, error)")
	fs.String(config.BYTEFILTER_LOG_FILE.CobraKey, "", "Optional log file; logging is disabled when empty")
	fs.Int(config.BYTEFILTER_BUFFER_SIZE.CobraKey, pipeline.DefaultBufferSize, "Chunk size in bytes for reads and writes")
	fs.String(config.BYTEFILTER_READ_ERRORS.CobraKey, "",
		"What a read error on a distinct output does: fatal or report (default fatal)")
	fs.String(config.BYTEFILTER_METADATA_FILE.CobraKey, "",
		"Optional run report path (.json, .yaml or .yml)")

	for _, v := range config.Vars() {
		bindFlag(fs, v)
	}

	if err := rootCmd.RegisterFlagCompletionFunc(flagFilter, completeFilter); err != nil {
		slog.Warn("failed to register completion", "flag", flagFilter, "error", err)
	}
}

func completeFilter(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range filter.Names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func bindFlag(fs *pflag.FlagSet, v *config.Var) {
	if err := viper.BindPFlag(v.ViperKey, fs.Lookup(v.CobraKey)); err != nil {
		slog.Warn("failed to bind flag", "flag", v.CobraKey, "error", err)
	}
}

func noPositionalArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %w: %q", errdefs.ErrUsage, errdefs.ErrInvalidArgument, args[0])
	}
	return nil
}

func checkRequiredFlags(fs *pflag.FlagSet) error {
	var missing []string
	for _, name := range []string{flagInput, flagOutput, flagFilter} {
		if v, _ := fs.GetString(name); v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %w: %v", errdefs.ErrUsage, errdefs.ErrMissingFlag, missing)
	}
	return nil
}

func buildOptions(fs *pflag.FlagSet) (pipeline.Options, error) {
	input, _ := fs.GetString(flagInput)
	output, _ := fs.GetString(flagOutput)
	filterName, _ := fs.GetString(flagFilter)

	bufSize := viper.GetInt(config.BYTEFILTER_BUFFER_SIZE.ViperKey)
	if bufSize < 1 {
		return pipeline.Options{}, fmt.Errorf("%w: %w: %d", errdefs.ErrUsage, errdefs.ErrInvalidBufferSize, bufSize)
	}

	policy, err := pipeline.ParseReadErrorPolicy(viper.GetString(config.BYTEFILTER_READ_ERRORS.ViperKey))
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("%w: %w", errdefs.ErrUsage, err)
	}

	return pipeline.Options{
		Input:      input,
		Output:     output,
		FilterName: filterName,
		BufferSize: bufSize,
		ReadErrors: policy,
	}, nil
}

func runFilter(
	ctx context.Context,
	logger *slog.Logger,
	stdout, stderr io.Writer,
	opts pipeline.Options,
	metadataFile string,
) error {
	started := time.Now()

	p := pipeline.New(stdout, stderr, logger)
	stats, err := p.Run(ctx, opts)
	if err != nil {
		return err
	}

	if metadataFile == "" {
		return nil
	}

	report := metadata.NewReport(opts, stats, started, time.Now())
	if err := metadata.Write(ctx, metadataFile, report); err != nil {
		logger.ErrorContext(ctx, "failed to write run report", "path", metadataFile, "error", err)
		return fmt.Errorf("%w: %w", errdefs.ErrWriteMetadata, err)
	}
	logger.InfoContext(ctx, "run report written", "path", metadataFile, "runId", report.RunID)
	return nil
}

func LoadConfig() error {
	for _, v := range config.Vars() {
		if err := v.BindEnv(); err != nil {
			return fmt.Errorf("bind env %s: %w", v.EnvVar(), err)
		}
		v.ApplyDefault()
	}

	if configFile := viper.GetString(config.BYTEFILTER_CONFIG_FILE.ViperKey); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		// Add the directory containing the config file
		viper.AddConfigPath(config.DefaultConfigDir())
	}

	if err := viper.ReadInConfig(); err != nil {
		// File not found is OK, defaults and env still apply
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return err // Config file was found but another error was produced
		}
	}

	return nil
}
