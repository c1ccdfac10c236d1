// Package config loads runtime configuration for the docanchor CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file passed with -c/--config. Files ending in .yaml or
//     .yml are YAML; anything else is JSON. Keys absent from the file keep
//     their previous value.
//  3. Environment: DOCANCHOR_SERVER_URL, DOCANCHOR_USER_ID,
//     DOCANCHOR_LOG_LEVEL.
//  4. Command-line flags, applied by the cli package.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "2s" or integer
// nanoseconds. Sizes are byte counts or human strings ("25 MiB", "10MB"):
//
//	{
//	  "server_url": "https://backend-hedera.onrender.com/api/documents",
//	  "user_id": "3f0c…",
//	  "general_max_size": "25 MiB",
//	  "identity_max_size": "10 MiB",
//	  "refresh_delay": "2s",
//	  "refresh_max_attempts": 5,
//	  "network": "testnet"
//	}
package config
