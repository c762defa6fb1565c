// Package config loads the inboxmeet configuration with viper.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// file ($XDG_CONFIG_HOME/inboxmeet/config.yaml or --config) and INBOXMEET_*
// environment variables, where nested keys are joined with underscores:
//
//	timezone: Europe/Berlin
//	working_hours:
//	  start: "08:30"
//	  end: "17:00"
//	signal:
//	  account: "+15551234567"
//	  group: Team
//
//	INBOXMEET_WORKING_HOURS_START=10:00 inboxmeet serve
package config
