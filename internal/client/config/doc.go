// Package config loads runtime configuration for the CompareHub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present (joho/godotenv).
//     It only fills variables the environment does not already set.
//  3. Environment variables prefixed with COMPAREHUB_ (caarlos0/env).
//  4. Optional JSON file selected via -c / -config or $COMPAREHUB_CONFIG.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   auth API base URL
//	-k string   catalog URL
//	-g string   catalog category
//	-i int      online status check interval (seconds)
//	-t string   HTTP request timeout (e.g. "30s")
//	-d string   path of the local SQLite database
//	-e string   exports directory
//	-m string   challenge mode: browser, prompt, static or none
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "auth_url": "https://api.example.com",
//	  "online_check_interval": "5s",
//	  "challenge": {"mode": "static", "token": "XXXX.DUMMY.TOKEN.XXXX"},
//	  "share": {"target": "s3", "s3_bucket": "reports"}
//	}
package config
