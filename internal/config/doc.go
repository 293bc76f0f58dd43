// Package config handles YAML configuration loading for the forbin CLI.
//
// Configuration files support ${VAR} syntax for environment variable interpolation,
// which keeps credentials out of the file itself:
//
//	api:
//	  username: ${FORBIN_USERNAME}
//	  password: ${FORBIN_PASSWORD}
package config
