// Package config loads launchpad configuration.
//
// Configuration is read from a YAML file with LAUNCHPAD_* environment
// overrides:
//
//	log_level: info
//	pool_size: 8
//	providers:
//	  - files                 # shorthand for {name: files}
//	  - name: calc
//	    command: launchpad-calc
//	    prefix: "="
//	    variables:
//	      precision: "4"
//	telemetry:
//	  enabled: true
//	  exporter: journal
//	  journal_path: ~/.local/share/launchpad/journal
//
// Variable names are case-insensitive; exec plugins receive them upper-cased.
package config
