// Package cli wires the envsim binary's cobra/viper command surface
// (spec §6), following the configuration idiom of this module's teacher:
// a Cfg wrapping *viper.Viper, flags bound into viper, an ENVSIM_ env
// prefix, and an optional --config file read in a PersistentPreRunE hook.
package cli

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the command tree and the bound configuration.
type Cfg struct {
	*viper.Viper

	Root, compileCmd, runCmd *cobra.Command

	Fs  afero.Fs
	Log *logrus.Logger
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagset                *pflag.FlagSet
}

// InitializeConfig builds the Root command and its subcommands, binding
// every flag into viper the way InitializeConfig does in this module's
// teacher.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Fs:    afero.NewOsFs(),
		Log:   logrus.StandardLogger(),
	}

	cfg.Root = &cobra.Command{
		Use:   "envsim",
		Short: "An environmental disturbance server for robotics co-simulation.",
		Long: `envsim compiles a declarative wind/temperature/pressure/GPS scene into a
set of lookup tables, then serves those tables to drones over a
shared-memory transport on a fixed tick schedule.

Configuration can be set with command-line flags, a config file (--config),
or environment variables prefixed with ENVSIM_.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.compileCmd = &cobra.Command{
		Use:   "compile",
		Short: "Compile a scene descriptor into space_areas/area_properties/links tables.",
		Long: `compile reads a scene descriptor (base atmosphere, grid, zones) and writes
the compiled space_areas, area_properties, and links tables to --outdir
(spec §4.1, §6).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cfg)
		},
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Serve a compiled environment to drones on a fixed tick schedule.",
		Long: `run loads a compiled environment directory and a drone roster, then drives
the fixed-step scheduler: reading each drone's pose, resolving its
disturbance, and writing it back every tick (spec §4.6, §6).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	options := []option{
		{name: "config", usage: "path to a configuration file", flagset: cfg.Root.PersistentFlags(), defaultVal: ""},
		{name: "infile", usage: "path to the scene descriptor JSON file", flagset: cfg.compileCmd.Flags(), defaultVal: "scene.json"},
		{name: "outdir", usage: "directory to write compiled tables to", flagset: cfg.compileCmd.Flags(), defaultVal: "."},
		{name: "envdir", usage: "directory containing compiled space_areas/area_properties/links tables", flagset: cfg.runCmd.Flags(), defaultVal: "."},
		{name: "roster", usage: "path to the drone roster config", flagset: cfg.runCmd.Flags(), defaultVal: "roster.json"},
		{name: "tick_msec", usage: "fixed tick period, in milliseconds", flagset: cfg.runCmd.Flags(), defaultVal: 100},
	}

	cfg.SetEnvPrefix("ENVSIM")
	cfg.AutomaticEnv()
	for _, opt := range options {
		switch v := opt.defaultVal.(type) {
		case string:
			opt.flagset.String(opt.name, v, opt.usage)
		case int:
			opt.flagset.Int(opt.name, v, opt.usage)
		default:
			panic(fmt.Errorf("envsim: invalid option default type: %T", opt.defaultVal))
		}
		cfg.BindPFlag(opt.name, opt.flagset.Lookup(opt.name))
	}

	cfg.Root.AddCommand(cfg.compileCmd, cfg.runCmd)
	return cfg
}

// setConfig reads in the configuration file named by --config, if any.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("envsim: problem reading configuration file: %v", err)
		}
	}
	return nil
}
