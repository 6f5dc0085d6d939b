package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ThrowOverlay/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "throwoverlay",
	Short: "Live presentation overlay for a ThrowSync dart board feed",
	Long: `ThrowOverlay connects to a ThrowSync backend's event feed and presents
the live match: caller and crowd audio, score HUD, event toasts and clips.
It reconnects on its own and runs until closed.`,
	SilenceUsage: true,
	RunE:         runOverlay,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "throwoverlay", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.config/throwoverlay/config.yaml)")
	flags.String("host", "", "backend host")
	flags.Int("port", 0, "backend port")
	flags.Bool("headless", false, "render to the terminal instead of a window")
	flags.String("lang", "", "toast language (en, de, nl, fr)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("ui.headless", flags.Lookup("headless"))
	_ = viper.BindPFlag("i18n.lang", flags.Lookup("lang"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("THROWOVERLAY")
	// THROWOVERLAY_SERVER_HOST for server.host
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
