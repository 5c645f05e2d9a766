// Package assets embeds the starter files written by "aurora registry init".
package assets

import _ "embed"

// DefaultCommands is the starter declarative command registry.
//
//go:embed defaults/commands.txt
var DefaultCommands []byte

// DefaultPhrases is the starter intent phrase corpus for the classifier.
//
//go:embed defaults/phrases.yaml
var DefaultPhrases []byte
