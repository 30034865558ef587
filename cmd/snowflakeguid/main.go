package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
	"github.com/spf13/cobra"

	"github.com/hudsonventura/SnowflakeGuid/guid"
	"github.com/hudsonventura/SnowflakeGuid/service"
	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snowflakeguid",
		Short: "Snowflake identifier toolkit",
		Long:  "Mint, decode and serve 64 bit snowflake identifiers whose epoch travels out of band.",
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMintCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newMaelstromCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the snowflake HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := service.FromEnv()
			if err != nil {
				return err
			}

			// flags win over the environment, but only when set
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("machine-id") {
				cfg.MachineID, _ = flags.GetInt("machine-id")
			}
			if flags.Changed("machine-cidr") {
				cfg.MachineCIDR, _ = flags.GetString("machine-cidr")
			}
			if flags.Changed("host-ip") {
				cfg.HostIP, _ = flags.GetString("host-ip")
			}
			if flags.Changed("log-level") {
				cfg.LogLevel, _ = flags.GetString("log-level")
			}
			if flags.Changed("epoch") {
				raw, _ := flags.GetString("epoch")
				epoch, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					return fmt.Errorf("--epoch %q: %w", raw, err)
				}
				cfg.Epoch = epoch
			}

			logger.New(cfg.LogLevel)
			defer logger.OnExit()
			log := logger.Sugar.WithServiceName("snowflakeguid")

			svc, err := service.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return svc.Run(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	cmd.Flags().Int("machine-id", -1, "Machine id (0..1023), otherwise derived from --machine-cidr and --host-ip")
	cmd.Flags().String("machine-cidr", "", "Private CIDR the host address is numbered in, eg 10.0.0.0/22")
	cmd.Flags().String("host-ip", "", "Host address the machine id is derived from")
	cmd.Flags().String("epoch", "", "Reference epoch as RFC3339, eg 2020-01-01T00:00:00Z (default unix epoch)")
	cmd.Flags().String("log-level", "", "Log level: DEBUG|INFO|NOOP")
	return cmd
}

func newMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint identifiers on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			machineID, _ := cmd.Flags().GetUint64("machine-id")
			n, _ := cmd.Flags().GetInt("n")
			asJSON, _ := cmd.Flags().GetBool("json")
			asGUID, _ := cmd.Flags().GetBool("guid")

			epoch, err := epochFlag(cmd)
			if err != nil {
				return err
			}

			gen, err := snowflake.NewGenerator(machineID, epoch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < n; i++ {
				ident, err := gen.Issue()
				if err != nil {
					return err
				}
				switch {
				case asJSON:
					b, err := json.Marshal(ident)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(b))
				case asGUID:
					fmt.Fprintln(out, guid.Format(ident))
				default:
					fmt.Fprintln(out, ident.Code())
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint64("machine-id", 0, "Machine id (0..1023)")
	cmd.Flags().Int("n", 1, "How many identifiers to mint")
	cmd.Flags().Bool("json", false, "Print the full identifier record as json")
	cmd.Flags().Bool("guid", false, "Print the guid container form")
	cmd.Flags().String("epoch", "", "Reference epoch as RFC3339 (default unix epoch)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect CODE|ID|GUID",
		Short: "Decode an identifier and print its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			epoch, err := epochFlag(cmd)
			if err != nil {
				return err
			}

			ident, err := snowflake.FromCode(args[0], epoch)
			if err != nil {
				gident, gerr := guid.Parse(args[0])
				if gerr != nil {
					return err
				}
				if cmd.Flags().Changed("epoch") {
					return errors.New("--epoch conflicts with a guid value, the guid carries its own epoch")
				}
				ident = gident
			}

			b, err := json.MarshalIndent(ident, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().String("epoch", "", "Reference epoch as RFC3339 (default unix epoch)")
	return cmd
}

func newMaelstromCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maelstrom",
		Short: "Answer maelstrom generate requests over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := maelstrom.NewNode()

			// the node id is only known once maelstrom has sent init
			var once sync.Once
			var gen *snowflake.Generator
			var genErr error

			n.Handle("generate", func(msg maelstrom.Message) error {
				once.Do(func() {
					gen, genErr = snowflake.NewGenerator(nodeMachineID(n.ID()), time.Time{})
				})
				if genErr != nil {
					return genErr
				}
				ident, err := gen.Issue()
				if err != nil {
					return err
				}
				return n.Reply(msg, map[string]any{
					"type": "generate_ok",
					"id":   ident.ID(),
				})
			})
			return n.Run()
		},
	}
}

// epochFlag reads the common --epoch flag. An empty value selects the unix
// epoch, matching the library default.
func epochFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("epoch")
	if raw == "" {
		return time.Time{}, nil
	}
	epoch, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--epoch %q: %w", raw, err)
	}
	return epoch, nil
}

// nodeMachineID maps a maelstrom node id such as "n3" onto the machine id
// space by taking its numeric suffix modulo the machine id range.
func nodeMachineID(nodeID string) uint64 {
	digits := strings.TrimLeftFunc(nodeID, func(r rune) bool { return r < '0' || r > '9' })
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v & snowflake.MaxMachineID
}
