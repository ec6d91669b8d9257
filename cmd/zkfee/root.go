package main

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmagro/zk-fee-profiler/internal/config"
	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/fees"
	"github.com/dmagro/zk-fee-profiler/internal/output"
	"github.com/dmagro/zk-fee-profiler/internal/reports"
	"github.com/dmagro/zk-fee-profiler/internal/rpc"
)

const (
	flagHead   = "head"
	flagJSON   = "json"
	flagReport = "report"

	reportPrefix = "zk-fee-profile"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := config.New()

	var (
		head    string
		jsonOut bool
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "zkfee",
		Short: "Profile recent fees and suggest EIP-1559 parameters",
		Long: `Sample a recent window of blocks from a JSON-RPC endpoint, compute
base fee, priority tip and effective gas price percentiles, and suggest
maxPriorityFeePerGas / maxFeePerGas for ZK transactions.

Settings come from flags, then environment variables, then an optional
YAML profile (--config), then defaults. A .env file in the working
directory is loaded without overriding variables that are already set.

Examples:
  zkfee --rpc https://sepolia.example/v3/KEY
  zkfee -b 300 -s 5 -p 0.9 --json
  zkfee --head 7123456 --report`,
		Args: func(cmd *cobra.Command, args []string) error {
			return errs.Wrap(errs.KindConfig, "args", cobra.NoArgs(cmd, args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetOutput(stderr)
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			opts, err := config.Resolve(v)
			if err != nil {
				return err
			}
			opts.JSON = jsonOut
			opts.Report = report
			if opts.Head, err = config.ParseHead(head); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			if opts.JSON {
				output.DisableColors()
			}
			return run(cmd.Context(), opts, stdout, newLogger(stderr, opts.LogLevel))
		},
	}

	f := cmd.Flags()
	f.String(config.KeyRPC, config.DefaultRPC, "JSON-RPC endpoint URL ($RPC_URL)")
	f.StringP(config.KeyBlocks, "b", strconv.Itoa(config.DefaultBlocks), "number of recent blocks in the window ($ZK_FEE_BLOCKS)")
	f.StringP(config.KeyStep, "s", strconv.Itoa(config.DefaultStep), "sample every Nth block ($ZK_FEE_STEP)")
	f.Float64P(config.KeyPercentile, "p", config.DefaultPercentile, "target percentile in [0, 1] ($ZK_FEE_TARGET_PCT)")
	f.StringVar(&head, flagHead, "latest", "anchor block: number, 0x-hex or latest")
	f.BoolVar(&jsonOut, flagJSON, false, "print a JSON document instead of text")
	f.String(config.KeyConfig, "", "YAML profile file ($ZK_FEE_CONFIG)")
	f.Duration(config.KeyTimeout, config.DefaultTimeout, "per-call RPC timeout ($ZK_FEE_TIMEOUT)")
	f.Duration(config.KeyTotal, 0, "deadline for the whole run, 0 for none ($ZK_FEE_TIMEOUT_TOTAL)")
	f.BoolVar(&report, flagReport, false, "also save the JSON document under reports/")
	f.String(config.KeyLogLevel, config.DefaultLogLevel, "log level: trace|debug|info|warn|error ($ZK_FEE_LOG_LEVEL)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Wrap(errs.KindConfig, "flags", err)
	})
	cobra.CheckErr(config.BindFlags(v, f))

	return cmd
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// run profiles the chain behind opts.RPCURL and writes the report to stdout.
func run(ctx context.Context, opts *config.Options, stdout io.Writer, logger *logrus.Logger) error {
	if opts.Total > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Total)
		defer cancel()
	}

	client := rpc.NewClient(rpc.ClientConfig{URL: opts.RPCURL, Timeout: opts.Timeout})
	profiler := fees.NewProfiler(client, logger)

	profile, err := profiler.Run(ctx, fees.RunOptions{
		Window:           opts.Blocks,
		Step:             opts.Step,
		TargetPercentile: opts.Percentile,
		Head:             opts.Head,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	doc := output.NewDocument(profile, now)

	if opts.Report {
		path, err := reports.WriteJSON(doc, "", reportPrefix, now)
		if err != nil {
			return errs.Wrap(errs.KindInternal, "report", err)
		}
		logger.WithField("path", path).Info("Report saved")
	}

	if opts.JSON {
		return output.WriteJSON(stdout, doc)
	}
	output.RenderText(stdout, doc.Data)
	return nil
}
