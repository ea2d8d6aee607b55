// Package config provides configuration parsing for relayed projects.
//
// The configuration is stored in relayed.json (or relayed.yaml) at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "gen": {
//	    "output": "relayed_gen.go",
//	    "prefix": "Tracked",
//	    "getters": true,
//	    "setters": true
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "demo": {
//	    "randomUsers": 2
//	  }
//	}
//
// The same keys are accepted in YAML:
//
//	gen:
//	  output: relayed_gen.go
//	  prefix: Tracked
//	log:
//	  level: debug
//
// Keys left out of the file keep their defaults.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Output:", cfg.Gen.Output)
package config
