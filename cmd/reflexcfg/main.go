package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/reflexarc/internal/config"
	"github.com/san-kum/reflexarc/internal/observability"
	"github.com/san-kum/reflexarc/internal/reflex"
)

var (
	configFile string
	preset     string
	logLevel   string
	topology   string
	samples    int
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "reflexcfg",
		Short:         "build and validate reflex arc configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "build the configuration and report every finding",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "print the default configuration as yaml",
		Args:  cobra.NoArgs,
		RunE:  runDefaults,
	}
	defaultsCmd.Flags().StringVar(&topology, "topology", reflex.Monosynaptic, "reflex topology")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(titleStyle.Render("presets:"))
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "list validation rules and override merge policies",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	rulesCmd.Flags().StringVar(&topology, "topology", reflex.Monosynaptic, "reflex topology")

	recruitmentCmd := &cobra.Command{
		Use:   "recruitment",
		Short: "plot EES recruitment curves of the validated configuration",
		Args:  cobra.NoArgs,
		RunE:  runRecruitment,
	}
	recruitmentCmd.Flags().IntVar(&samples, "samples", 60, "points per curve")

	rootCmd.AddCommand(validateCmd, defaultsCmd, presetsCmd, rulesCmd, recruitmentCmd)

	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// initLogger sets up logging from the config file when one is given so the
// file's logger section applies; flags override it.
func initLogger(cmd *cobra.Command) {
	logCfg := observability.DefaultLoggerConfig()
	if configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			logCfg = cfg.Logger
		}
	}
	if cmd.Flags().Changed("log-level") {
		logCfg.Level = logLevel
	}
	observability.InitializeLogger(logCfg)
}

// loadReflexConfig layers the config file over the preset.
func loadReflexConfig() (config.ReflexConfig, error) {
	rc := config.DefaultConfig().Reflex

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return rc, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		rc = rc.Layer(p)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return rc, fmt.Errorf("failed to load config: %w", err)
		}
		rc = rc.Layer(cfg.Reflex)
	}
	return rc, nil
}

func build() (*reflex.Config, *reflex.Report, error) {
	rc, err := loadReflexConfig()
	if err != nil {
		return nil, nil, err
	}
	topo, err := reflex.DefaultRegistry().Get(rc.Topology)
	if err != nil {
		return nil, nil, err
	}
	ov, err := rc.Overrides()
	if err != nil {
		return nil, nil, err
	}
	// validate renders the report itself
	return topo.Build(ov, reflex.WithLogger(zap.NewNop()))
}

func runValidate(cmd *cobra.Command, args []string) error {
	c, report, err := build()
	if report == nil {
		return err
	}

	fmt.Println(titleStyle.Render(report.Title + " configuration"))
	for _, f := range report.Findings {
		style := errStyle
		if f.Severity == reflex.SeverityWarning {
			style = warnStyle
		}
		fmt.Printf("  %s %s\n", style.Render(fmt.Sprintf("%-7s", f.Severity)), f.Message)
		fmt.Printf("          %s\n", dimStyle.Render(string(f.Rule)))
	}

	if err != nil {
		return fmt.Errorf("%d error(s), %d warning(s)", len(report.Errors()), len(report.Warnings()))
	}

	printSummary(c)
	fmt.Println(okStyle.Render(fmt.Sprintf("valid (%d warning(s))", len(report.Warnings()))))
	return nil
}

func printSummary(c *reflex.Config) {
	row := func(label string, value interface{}) {
		fmt.Printf("  %s %v\n", labelStyle.Render(label), value)
	}

	row("muscles", c.Muscles)
	row("joint", c.Joint)
	row("reaction time", c.ReactionTime)
	row("fast type MU", c.FastTypeMU)
	for _, n := range c.Neurons.Labels() {
		row("population "+n, c.Neurons[n])
	}
	for _, p := range c.Connections.Pathways() {
		syn := c.Connections[p]
		row("connection "+p.String(), fmt.Sprintf("w=%s p=%g", syn.Weight, *syn.Probability))
	}
	for _, k := range slices.Sorted(maps.Keys(c.Biophysical)) {
		row(k, c.Biophysical[k])
	}
	row("initial activation", config.ActivationSummary(c.InitialActivation))
}

func runDefaults(cmd *cobra.Command, args []string) error {
	topo, err := reflex.DefaultRegistry().Get(topology)
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	cfg.Reflex = config.FromReflex(topo.Defaults())

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func runRules(cmd *cobra.Command, args []string) error {
	topo, err := reflex.DefaultRegistry().Get(topology)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(topo.Title + " rules:"))
	for _, id := range topo.Rules.IDs() {
		fmt.Printf("  %s\n", id)
	}

	fmt.Println(titleStyle.Render("override policies:"))
	policies := reflex.FieldPolicies()
	for _, name := range slices.Sorted(maps.Keys(policies)) {
		fmt.Printf("  %s %s\n", labelStyle.Width(44).Render(name), policies[name])
	}
	return nil
}
