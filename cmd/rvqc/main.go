// Package main provides the rvqc command-line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/rvqc/internal/qcfilter"
	"github.com/inodb/rvqc/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".rvqc"
	envPrefix  = "RVQC"
)

// logger is built by the root command before any subcommand runs.
var logger = zap.NewNop()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI and maps the returned error to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	defer logger.Sync() //nolint:errcheck
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	code := exitCode(err)
	if code == ExitUsage && cmd != nil {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return code
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "rvqc",
		Short: "Rare-variant QC pipeline",
		Long: `rvqc turns an annotated multi-sample VCF into a mutation table and
per-sample QC statistics for a case/control cohort.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ConfigurationError{Message: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/"+configName+".yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newMutationsCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads defaults, the config file and RVQC_ environment
// variables into the global viper instance.
func initConfig(cfgFile string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return &ConfigurationError{Message: fmt.Sprintf("read config %s: %v", cfgFile, err)}
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return &ConfigurationError{Message: fmt.Sprintf("read config %s: %v", filepath.Join(home, configName+".yaml"), err)}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(keyWorkers, runtime.NumCPU())
	viper.SetDefault(keyInfoColumn, vcf.ColInfo)
	viper.SetDefault(keyMinAF, 0.0)
	viper.SetDefault(keyMaxAF, 1.0)
	viper.SetDefault(keyLegacyEffects, false)
	viper.SetDefault(keyHardFilter, false)
	viper.SetDefault(keyDB, "")

	t := qcfilter.DefaultThresholds()
	viper.SetDefault(keySNPMaxFS, t.SNP.MaxFS)
	viper.SetDefault(keySNPMinInbreedingCoeff, t.SNP.MinInbreedingCoeff)
	viper.SetDefault(keySNPMinMQ, t.SNP.MinMQ)
	viper.SetDefault(keySNPMinMQRankSum, t.SNP.MinMQRankSum)
	viper.SetDefault(keySNPMinQD, t.SNP.MinQD)
	viper.SetDefault(keySNPMinReadPosRankSum, t.SNP.MinReadPosRankSum)
	viper.SetDefault(keySNPMaxSOR, t.SNP.MaxSOR)
	viper.SetDefault(keyIndelMaxFS, t.Indel.MaxFS)
	viper.SetDefault(keyIndelMinQD, t.Indel.MinQD)
	viper.SetDefault(keyIndelMinReadPosRank, t.Indel.MinReadPosRankSum)
	viper.SetDefault(keyIndelMaxSOR, t.Indel.MaxSOR)
}

// newLogger builds a production zap logger writing to w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}
