package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gqlnormalize "github.com/Protocol-Lattice/gqlnormalize"
	"github.com/Protocol-Lattice/gqlnormalize/config"
	"github.com/Protocol-Lattice/gqlnormalize/registry"
)

// stdinPath selects standard input as the query source.
const stdinPath = "-"

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "gqlnormalize [path]",
		Short: "gqlnormalize prints the canonical form of a GraphQL query document",
		Long: `gqlnormalize reads a GraphQL query document from a file or standard input,
sorts every unordered construct (selections, arguments, directives, variable
definitions, list elements and definitions) and prints the result.`,
		Example:      "gqlnormalize query.graphql\ncat query.graphql | gqlnormalize -m",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := render(src, cfg)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().Bool(config.KeyFieldArgumentValues, false, "also canonicalize the values of field arguments")
	cmd.PersistentFlags().String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	cmd.Flags().BoolP(config.KeyMinify, "m", false, "minify the output")
	cmd.Flags().Bool(config.KeyHash, false, "print the canonical query id instead of the query")
	bindFlags(v, cmd.PersistentFlags(), config.KeyFieldArgumentValues, config.KeyLogLevel)
	bindFlags(v, cmd.Flags(), config.KeyMinify, config.KeyHash)

	cmd.AddCommand(newServeCmd(v, &cfgFile))
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
}

// readInput reads the query from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// render produces the command output for src.
func render(src string, cfg *config.Config) (string, error) {
	out, err := gqlnormalize.Normalize(src, cfg.NormalizerOptions()...)
	if err != nil {
		return "", err
	}
	switch {
	case cfg.Hash:
		return registry.ID(out) + "\n", nil
	case cfg.Minify:
		minified, err := gqlnormalize.Minify(out)
		if err != nil {
			return "", err
		}
		return fmt.Sprintln(minified), nil
	}
	return out, nil
}
