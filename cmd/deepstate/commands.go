package main

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"deepstate/internal/verify"
	"deepstate/options"
	"deepstate/store"
)

var errVerification = errors.New("verification failed")

type flags struct {
	config  string
	op      string
	jobs    int
	verbose bool
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "deepstate",
		Short:        "Verify types for deep equality, deep copy and change tracking",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&f.config, "config", "c", "", "settings file (YAML)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug records to stderr")

	verifyCmd := &cobra.Command{
		Use:   "verify TYPE...",
		Short: "Report what keeps the engine from traversing the given types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, f, args)
		},
	}
	verifyCmd.Flags().StringVar(&f.op, "op", "equal", "engine: equal, copy or track")
	verifyCmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "types verified at the same time")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}

			out, err := options.MarshalConfig(cfg)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	root.AddCommand(verifyCmd, configCmd)

	return root
}

// registry holds the types the CLI can resolve by name.
func registry() *options.TypeRegistry {
	return options.NewTypeRegistry(
		reflect.TypeFor[store.Product](),
		reflect.TypeFor[store.Customer](),
		reflect.TypeFor[store.Order](),
		reflect.TypeFor[store.OrderItem](),
		reflect.TypeFor[store.Category](),
		reflect.TypeFor[store.Receipt](),
		reflect.TypeFor[store.Cart](),
		reflect.TypeFor[store.CartLine](),
	)
}

func loadConfig(path string) (*options.Config, error) {
	if path == "" {
		return options.ParseConfig(nil)
	}

	return options.LoadConfig(path)
}

func parseOp(name string) (verify.Op, error) {
	switch name {
	case "equal":
		return verify.Equal, nil
	case "copy":
		return verify.Copy, nil
	case "track":
		return verify.Track, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", name)
	}
}

func runVerify(cmd *cobra.Command, f *flags, names []string) error {
	op, err := parseOp(f.op)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}

	var opts []options.Option
	if f.verbose {
		opts = append(opts, options.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	reg := registry()

	s, err := cfg.Settings(reg, opts...)
	if err != nil {
		return err
	}

	types := make([]reflect.Type, len(names))
	for i, name := range names {
		t, ok := reg.Resolve(name)
		if !ok {
			return fmt.Errorf("%w: %q", options.ErrUnknownType, name)
		}

		types[i] = t
	}

	// types are verified concurrently and reported in argument order
	results := make([]error, len(types))

	var g errgroup.Group
	g.SetLimit(max(f.jobs, 1))

	for i, t := range types {
		g.Go(func() error {
			results[i] = verify.Err(t, s, op)
			return results[i]
		})
	}

	// the first failure decides the exit, every type is still reported
	if g.Wait() == nil {
		for _, t := range types {
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", t)
		}

		return nil
	}

	failed := 0

	for i, t := range types {
		if results[i] != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n%v\n", t, results[i])

			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", t)
	}

	return fmt.Errorf("%w: %d of %d types", errVerification, failed, len(names))
}
