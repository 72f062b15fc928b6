// Package connectors provides sources that feed documents into docchat from
// outside the HTTP API. Each connector knows how to read a document from a
// specific place and, where possible, report when it changes.
package connectors
