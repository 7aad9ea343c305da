package cmd

import (
	"context"
	"fmt"

	"github.com/phux/rtcapi/app"

	"github.com/spf13/cobra"
)

var blockLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print pool statistics",
	Args:  cobra.NoArgs,
	RunE: single(func(ctx context.Context, a *app.App, _ []string) (string, error) {
		return a.Stats(ctx)
	}),
}

var minersCmd = &cobra.Command{
	Use:   "miners",
	Short: "list registered miners",
	Args:  cobra.NoArgs,
	RunE: single(func(ctx context.Context, a *app.App, _ []string) (string, error) {
		return a.Miners(ctx)
	}),
}

var blockchainCmd = &cobra.Command{
	Use:   "blockchain",
	Short: "print chain length and the leading blocks",
	Args:  cobra.NoArgs,
	RunE: single(func(ctx context.Context, a *app.App, _ []string) (string, error) {
		return a.Blockchain(ctx, blockLimit)
	}),
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "ask the server to validate the blockchain",
	Args:  cobra.NoArgs,
	RunE: single(func(ctx context.Context, a *app.App, _ []string) (string, error) {
		return a.Validate(ctx)
	}),
}

var blockCmd = &cobra.Command{
	Use:   "block <index>",
	Short: "print a single block",
	Args:  cobra.ExactArgs(1),
	RunE: single(func(ctx context.Context, a *app.App, args []string) (string, error) {
		index, err := app.ParseBlockIndex(args[0])
		if err != nil {
			return "", err
		}

		return a.Block(ctx, index)
	}),
}

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "print per-miner CPU and GPU statistics",
	Args:  cobra.NoArgs,
	RunE: single(func(ctx context.Context, a *app.App, _ []string) (string, error) {
		return a.CPUStats(ctx)
	}),
}

var minerCmd = &cobra.Command{
	Use:   "miner",
	Short: "control a single miner",
}

func minerActionCmd(action app.MinerAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <miner-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: single(func(ctx context.Context, a *app.App, args []string) (string, error) {
			return a.ControlMiner(ctx, action, args[0])
		}),
	}
}

var minerThrottleCmd = &cobra.Command{
	Use:   "throttle <miner-id> <percent>",
	Short: "limit a miner's CPU usage (0-100, 0: unlimited)",
	Args:  cobra.ExactArgs(2),
	RunE: single(func(ctx context.Context, a *app.App, args []string) (string, error) {
		percent, err := app.ParseThrottlePercent(args[1])
		if err != nil {
			return "", err
		}

		return a.ThrottleMiner(ctx, args[0], percent)
	}),
}

func init() {
	blockchainCmd.Flags().IntVar(&blockLimit, "limit", app.DefaultBlockLimit, "[optional] number of blocks to print")

	minerCmd.AddCommand(
		minerActionCmd(app.MinerPause, "pause mining on a miner"),
		minerActionCmd(app.MinerResume, "resume mining on a paused miner"),
		minerActionCmd(app.MinerDelete, "remove a miner from the pool"),
		minerThrottleCmd,
	)
}

// single adapts one app call into a cobra RunE printing its report.
func single(fn func(context.Context, *app.App, []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		out, err := fn(cmd.Context(), a, args)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)

		return nil
	}
}
