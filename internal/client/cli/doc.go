// Package cli implements the docanchor command-line interface on top of the
// anchoring services.
//
// Commands: upload, list, show, verify, hash, watch and version. Global flags
// (-c/--config, -a/--server, -u/--user, --log-level, --network) override the
// configuration file and environment.
//
// Entry point: Run(ctx, args, opts...).
package cli
