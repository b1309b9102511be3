package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigFile               = "config"
	ConfigSearchDepth        = "search-depth"
	ConfigLateSearchDepth    = "late-search-depth"
	ConfigEscalationTurn     = "escalation-turn"
	ConfigThreads            = "threads"
	ConfigNatsURL            = "nats-url"
	ConfigBotChannel         = "bot-channel"
	ConfigSelfplayGames      = "selfplay-games"
	ConfigSelfplayRandomPly  = "selfplay-random-plies"
	ConfigSelfplayOutput     = "selfplay-output"
	ConfigSelfplayGameLog    = "selfplay-game-log"
	ConfigSelfplaySeedFile   = "selfplay-seed-file"
	ConfigCornerWeight       = "eval-corner-weight"
	ConfigCornerNeighbWeight = "eval-corner-neighbour-weight"
	ConfigMobilityWeight     = "eval-mobility-weight"
	ConfigFrontierWeight     = "eval-frontier-weight"
	ConfigCPUProfile         = "cpu-profile"
)

type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchDepth, 5)
	v.SetDefault(ConfigLateSearchDepth, 16)
	v.SetDefault(ConfigEscalationTurn, 25)
	v.SetDefault(ConfigThreads, 1)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "desdemona.bot")
	v.SetDefault(ConfigSelfplayGames, 10)
	v.SetDefault(ConfigSelfplayRandomPly, 4)
	v.SetDefault(ConfigSelfplayOutput, "")
	v.SetDefault(ConfigSelfplayGameLog, "")
	v.SetDefault(ConfigSelfplaySeedFile, "")
	v.SetDefault(ConfigCornerWeight, 801.724)
	v.SetDefault(ConfigCornerNeighbWeight, 12.5*324.026)
	v.SetDefault(ConfigMobilityWeight, 78.922)
	v.SetDefault(ConfigFrontierWeight, 74.396)
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config with every default set and nothing read
// from flags, files or the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("desdemona", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigFile, "", "optional yaml config file")
	fs.Int(ConfigSearchDepth, 5, "search depth in plies for the early game")
	fs.Int(ConfigLateSearchDepth, 16, "search depth in plies once the escalation turn is reached")
	fs.Int(ConfigEscalationTurn, 25, "engine turn on which the late search depth takes over")
	fs.Int(ConfigThreads, 1, "number of threads for the root move loop")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server for the bot service")
	fs.String(ConfigBotChannel, "desdemona.bot", "NATS subject the bot listens on")
	fs.Int(ConfigSelfplayGames, 10, "number of self-play games")
	fs.Int(ConfigSelfplayRandomPly, 4, "random plies played at the start of each self-play game")
	fs.String(ConfigSelfplayOutput, "", "file to write the yaml self-play summary to")
	fs.String(ConfigSelfplayGameLog, "", "file to write one csv line per self-play game to")
	fs.String(ConfigSelfplaySeedFile, "", "replay the openings from this seed file instead of random ones")
	fs.Float64(ConfigCornerWeight, 801.724, "weight of the corner heuristic")
	fs.Float64(ConfigCornerNeighbWeight, 12.5*324.026, "weight of the corner-neighbour heuristic")
	fs.Float64(ConfigMobilityWeight, 78.922, "weight of the mobility heuristic")
	fs.Float64(ConfigFrontierWeight, 74.396, "weight of the frontier term")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	return fs
}

// Load reads configuration from command-line flags, DESDEMONA_ environment
// variables and an optional yaml file, in decreasing order of precedence.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("desdemona")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cfgFile := c.GetString(ConfigFile); cfgFile != "" {
		c.SetConfigFile(cfgFile)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
		log.Debug().Str("file", c.ConfigFileUsed()).Msg("read-config-file")
	}
	return nil
}

// SanitizedSettings is safe to log.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
