package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("proxy", "", "Comma separated HTTP/SOCKS5 proxies to rotate through")
	cmd.PersistentFlags().String("timeout", "", "Per-request timeout (e.g. 30s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().String("base-url", "", "Base URL relative image references resolve against")
}

// flagKeys maps CLI flags onto configuration keys
var flagKeys = map[string]string{
	"proxy":       "proxies",
	"timeout":     "http_timeout",
	"user-agent":  "user_agent",
	"base-url":    "base_url",
	"concurrency": "concurrency",
	"json":        "json_log",
}
