// Package embedded provides access to data files compiled into the binary.
package embedded

import _ "embed"

// BuiltinCommandsData contains the command definitions the shell starts with.
//
//go:embed commands.yaml
var BuiltinCommandsData []byte
