package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trialbench"
	"trialbench/internal/banner"
	"trialbench/internal/cli"
	"trialbench/internal/dummy"
	"trialbench/internal/probe"
)

var (
	cfgFile string

	// CLI flags
	url         string
	method      string
	body        string
	headers     []string
	iterations  int
	concurrency int
	retries     int
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "trialbench",
	Short: "trialbench - repeated-trial benchmark harness",
	Long: `
trialbench runs many independent trials of a scenario under a
concurrency cap, retries slow or failing trials with exponential
backoff, and reduces the outcomes into pass/fail counts and latency
percentile statistics.

The built-in trial body is an HTTP probe; point it at any endpoint
(or at the bundled dummy server) and it reports accuracy plus P50/P95
latency per measurement dimension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if url == "" {
			return cmd.Usage()
		}
		return runHeadless()
	},
}

func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(dummyCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trialbench.yaml)")

	rootCmd.Flags().StringVarP(&url, "url", "u", "", "Target URL for the HTTP probe trial")
	rootCmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	rootCmd.Flags().StringVarP(&body, "body", "b", "", "Request body")
	rootCmd.Flags().StringSliceVarP(&headers, "header", "H", []string{}, "HTTP header (e.g. \"Key: Value\")")
	rootCmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Number of trials to run")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", trialbench.DefaultConcurrency, "Max trials in flight at once")
	rootCmd.Flags().IntVarP(&retries, "retries", "r", 0, "Additional attempts per trial after a failure")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", trialbench.DefaultTimeout, "Per-attempt timeout")

	viper.BindPFlag("iterations", rootCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("concurrency", rootCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("retries", rootCmd.Flags().Lookup("retries"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".trialbench")
		}
	}
	viper.SetEnvPrefix("TRIALBENCH")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

func runHeadless() error {
	pcfg := probe.Config{
		URL:    url,
		Method: method,
		Body:   body,
	}

	pcfg.Headers = make(map[string]string)
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			pcfg.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	opts := trialbench.RunOptions{
		Iterations:  viper.GetInt("iterations"),
		Concurrency: viper.GetInt("concurrency"),
		Retries:     viper.GetInt("retries"),
		Timeout:     timeout,
	}

	return cli.Start(pcfg, opts)
}

var dummyCmd = &cobra.Command{
	Use:   "dummy",
	Short: "Run the bundled dummy target server",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		dummy.Start(dummy.ServerConfig{Port: port})
		select {}
	},
}

func init() {
	dummyCmd.Flags().IntP("port", "p", 8080, "Port to run the dummy server on")
}
