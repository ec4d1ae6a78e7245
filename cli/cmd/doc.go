// Package cmd implements the edl subcommands: compile, check, tokens, ast,
// init and version.
//
// Commands find the [kong.Context] of the running application in their
// [context.Context] (see [WithContext]) and write to its standard output.
package cmd

// ConfigIdentifier is the kong variable holding the path of the
// configuration file.
const ConfigIdentifier = "config"

// EncodingsIdentifier is the kong variable listing the supported source
// encodings.
const EncodingsIdentifier = "encodings"

// NodeKindsIdentifier is the kong variable listing the syntax tree kinds the
// ast command filters on.
const NodeKindsIdentifier = "nodeKinds"
