// Package cmd implements the ncbi-client command line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amdshrif/ncbi-client/pkg/cache"
	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/eutils"
	"github.com/amdshrif/ncbi-client/pkg/logging"
)

var (
	cfgFile string
	verbose bool

	// Version info set by the main package via ldflags.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to record build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "ncbi-client",
	Short: "Query the NCBI Entrez databases from the command line",
	Long: `ncbi-client talks to the NCBI Entrez E-utilities: search databases,
fetch records, retrieve document summaries and database metadata.

Requests are rate limited to NCBI's published quota (3 req/s anonymous,
10 req/s with an API key) and idempotent responses are cached. Set
NCBI_API_KEY and NCBI_EMAIL, or use the matching flags.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ncbi-client.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().String("api-key", "", "NCBI API key (env: NCBI_API_KEY)")
	rootCmd.PersistentFlags().String("email", "", "contact email sent with every request (env: NCBI_EMAIL)")
	rootCmd.PersistentFlags().String("db", "pubmed", "Entrez database to query")
	rootCmd.PersistentFlags().String("cache", "memory", "cache backend: memory, redis, sqlite or none")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for --cache redis")
	rootCmd.PersistentFlags().String("sqlite-path", "", "database file for --cache sqlite (default $HOME/.ncbi-client.db)")
	rootCmd.PersistentFlags().Duration("cache-ttl", time.Hour, "time-to-live for cached responses")

	for _, flag := range []string{"api-key", "email", "db", "cache", "redis-addr", "sqlite-path", "cache-ttl"} {
		_ = viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig reads the config file and NCBI_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ncbi-client")
		}
	}

	viper.SetEnvPrefix("NCBI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{Level: level, Pretty: true})
}

// newService builds the executor and E-utilities service from the resolved
// configuration. The returned cleanup closes backend connections.
func newService() (*eutils.Service, func(), error) {
	store, cleanup, err := newCacheStore()
	if err != nil {
		return nil, nil, err
	}

	cfg := client.DefaultConfig()
	cfg.APIKey = viper.GetString("api-key")
	cfg.Email = viper.GetString("email")
	cfg.Tool = "ncbi-client-go"
	cfg.Cache = store
	cfg.CacheTTL = viper.GetDuration("cache-ttl")

	c, err := client.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return eutils.New(c), cleanup, nil
}

func newCacheStore() (cache.Store, func(), error) {
	noop := func() {}
	switch backend := viper.GetString("cache"); backend {
	case "none":
		return nil, noop, nil
	case "memory":
		return cache.NewMemory(cache.DefaultMaxEntries), noop, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: viper.GetString("redis-addr")})
		return cache.NewRedis(rdb), func() { rdb.Close() }, nil
	case "sqlite":
		path := viper.GetString("sqlite-path")
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve sqlite cache path: %w", err)
			}
			path = home + "/.ncbi-client.db"
		}
		store, err := cache.NewSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q (want memory, redis, sqlite or none)", backend)
	}
}
