// Package common holds enums shared by configuration and the codec. Codec
// package must not depend on configuration, so enums live here.
package common

// Chord attribute dialect used when writing songs.
// ENUM(current, legacy)
type Dialect int

// What to do with a line which inline markup could not be decoded.
// ENUM(fail, placeholder)
type RecoveryMode int

// Specification of requested decode output.
// ENUM(yaml, json, tree, xml)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtJson:
		return ".json"
	case OutputFmtTree:
		return ".txt"
	case OutputFmtXml:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
