package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	_ "github.com/nerrad567/piplant-core/internal/components/all" // registers every component module

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/registry"
)

// Persistent flag names.
const (
	flagConfig   = "config"
	flagPackages = "packages"
	flagMock     = "mock"
)

// options carries the persistent flags into each subcommand.
type options struct {
	configPath   string
	packagesFile string
	mock         bool
}

// newRootCmd builds the piplant command tree. Running the root without a
// subcommand behaves like "piplant run".
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "piplant [sub-command]",
		Short: "PiPlant Core plant monitor",
		Long: `PiPlant Core resolves a file of package entries (sensors, stores,
telemetry sinks and lights) into live components in dependency order,
then polls the sensors and drives the lights.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed(flagMock))
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, flagConfig, "c", getConfigPath(),
		`path to config.yaml (env PIPLANT_CONFIG)`)
	cmd.PersistentFlags().StringVarP(&opts.packagesFile, flagPackages, "p", "",
		`package entries file (.yaml, .json or .hcl), overriding packages.file`)
	cmd.PersistentFlags().BoolVar(&opts.mock, flagMock, false,
		`substitute every package with its family mock, overriding packages.mock`)

	cmd.AddCommand(
		newRunCmd(opts),
		newOrderCmd(opts),
		newGraphCmd(opts),
		newValidateCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Resolve the packages and run the monitor until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed(flagMock))
		},
	}
}

func newOrderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the build order and the module each entry resolves to",
		Example: `  # Show what --mock would construct
  piplant order --mock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, reg, err := loadRegistry(opts, cmd.Flags().Changed(flagMock))
			if err != nil {
				return err
			}
			steps, err := reg.Plan(cfg.Packages.Mock)
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), steps)
			return nil
		},
	}
}

func newGraphCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the package dependency graph",
		Example: `  # Render with Graphviz
  piplant graph | dot -Tsvg > packages.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, reg, err := loadRegistry(opts, cmd.Flags().Changed(flagMock))
			if err != nil {
				return err
			}
			g, err := reg.Graph()
			if err != nil {
				return err
			}
			switch format {
			case "dot":
				_, err = io.WriteString(cmd.OutOrStdout(), g.DOT())
			case "mermaid":
				_, err = io.WriteString(cmd.OutOrStdout(), g.Mermaid())
			default:
				return fmt.Errorf("unknown graph format %q (want dot or mermaid)", format)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or mermaid")
	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check config.yaml and the entries file without constructing anything",
		Long: `validate loads config.yaml and the entries file, checks the entries
against the schema, computes the build order, resolves every module path
(including mocks when --mock is set) and checks that every package
referenced by the app section is declared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, reg, err := loadRegistry(opts, cmd.Flags().Changed(flagMock))
			if err != nil {
				return err
			}
			steps, err := reg.Plan(cfg.Packages.Mock)
			if err != nil {
				return err
			}
			if err := checkAppReferences(cfg, reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d packages in %s\n", len(steps), cfg.Packages.File)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "piplant %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads config.yaml and applies the flag overrides. mockSet
// reports whether --mock was given explicitly.
func loadConfig(opts *options, mockSet bool) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.packagesFile != "" {
		cfg.Packages.File = opts.packagesFile
	}
	if mockSet {
		cfg.Packages.Mock = opts.mock
	}
	return cfg, nil
}

// loadRegistry loads the configuration and registers its entries with a
// registry backed by every compiled-in component.
func loadRegistry(opts *options, mockSet bool) (*config.Config, *registry.Registry, error) {
	cfg, err := loadConfig(opts, mockSet)
	if err != nil {
		return nil, nil, err
	}
	entries, err := registry.LoadEntries(cfg.Packages.File)
	if err != nil {
		return nil, nil, fmt.Errorf("loading packages: %w", err)
	}
	reg := registry.New(component.NewLoader(component.Default))
	if err := reg.Register(entries); err != nil {
		return nil, nil, fmt.Errorf("registering packages: %w", err)
	}
	return cfg, reg, nil
}

// checkAppReferences reports app references to undeclared packages.
func checkAppReferences(cfg *config.Config, reg *registry.Registry) error {
	if cfg.App == nil || cfg.App.IsNull() {
		return nil
	}
	refs, err := registry.References(cfg.App)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	declared := make(map[string]bool)
	for _, e := range reg.Entries() {
		declared[e.Name] = true
	}
	var missing []string
	for _, name := range refs {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("app references undeclared packages: %s", strings.Join(missing, ", "))
	}
	return nil
}

// renderPlan prints one row per entry in build order.
func renderPlan(w io.Writer, steps []registry.Step) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Package", "Module", "Resolves To", "Source", "Depends On"})
	for i, s := range steps {
		t.AppendRow(table.Row{i + 1, s.Name, s.Module, s.Resolved, s.Source, strings.Join(s.Dependencies, ", ")})
	}
	t.Render()
}
