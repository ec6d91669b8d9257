// Command zkfee profiles recent fee levels on an EVM chain and suggests
// EIP-1559 fee parameters for transactions submitted by a ZK prover or
// sequencer.
//
// Usage examples:
//
//	zkfee --rpc https://sepolia.example/v3/KEY
//	zkfee -b 300 -s 5 -p 0.9 --json
//	zkfee --head 7123456 --report
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dmagro/zk-fee-profiler/internal/env"
	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/output"
)

func main() {
	if n, err := env.Load(env.DefaultFile); err != nil {
		logrus.WithError(err).Warn("Ignoring unreadable .env file")
	} else if n > 0 {
		logrus.Debugf("Loaded %d variables from %s", n, env.DefaultFile)
	}

	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and returns the process exit code. Errors
// are reported here: as an error document on stdout in JSON mode, on stderr
// otherwise.
func execute(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logrus.Warnf("Received signal %v, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errs.ExitOK
	}

	if jsonOut, _ := cmd.Flags().GetBool(flagJSON); jsonOut {
		if werr := output.WriteJSON(stdout, output.NewErrorDocument(err, time.Now())); werr != nil {
			output.RenderError(stderr, werr)
		}
	} else {
		output.RenderError(stderr, err)
	}
	return errs.ExitCode(err)
}
