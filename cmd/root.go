package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"crazycars/internal/config"
	applog "crazycars/internal/log"
)

const envPrefix = "CRAZYCARS"

var (
	cfgFile string
	cfg     *config.Config
)

// flagKeys maps flag names to their dotted config keys. Flags not listed
// are bound under their own name.
var flagKeys = map[string]string{
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
	"log-filter": config.KeyLogFilter,
	"track":      config.KeySource,
	"assets":     config.KeyAssetsDir,
	"levels":     config.KeyLevels,
	"path-file":  config.KeyPathFile,
	"fps":        config.KeyFPS,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crazycars",
	Short: "Top-down racing against a path-following computer car",
	Long: `Race a car around a raster track against a computer car that follows
a waypoint path. Every level the computer gets faster; finish all levels
to win.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.crazycars.yaml or ./.crazycars.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")
	rootCmd.PersistentFlags().String("log-filter", "", `zapfilter rules, e.g. "*:race warn+:*"`)
	rootCmd.PersistentFlags().String("track", config.SourceBuiltin,
		"track source: builtin (generated oval) or files (images from --assets)")
	rootCmd.PersistentFlags().String("assets", "imgs", "directory holding the track images")
	rootCmd.PersistentFlags().Int("levels", 10, "number of levels in a race")
	rootCmd.PersistentFlags().String("path-file", "", "waypoint path file recorded with run --record-path")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newSimulateCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".crazycars")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case cfgFile != "" || !errors.As(err, &notFound):
		cobra.CheckErr(fmt.Errorf("read config: %w", err))
	}
}

// setup binds the flags of the command being run, loads the configuration
// and initializes the logger.
func setup(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	var err error
	if cfg, err = config.Load(v); err != nil {
		return err
	}
	if err := applog.Init(cfg.Log); err != nil {
		return err
	}
	applog.Logger.Debug("configuration loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("source", cfg.Source),
		zap.Int("levels", cfg.Levels))
	return nil
}

// bindFlags binds each flag of cmd, inherited ones included, to its viper
// key so that a flag set on the command line wins over config file and
// environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}
