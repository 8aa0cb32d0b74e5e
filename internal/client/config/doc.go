// Package config loads the console's settings.
//
// Sources, lowest precedence first:
//  1. LoadDefaults
//  2. a JSON file given with -c or -config
//  3. MATRIMO_* environment variables, optionally seeded from a dotenv file
//     (-env path, or ./.env when present)
//  4. command-line flags -a -u -t -d -l -i
//
// Malformed input in any source panics; LoadConfig runs before anything else
// at startup.
package config
