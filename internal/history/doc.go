// Package history records completed tracker submissions in a local SQLite
// database so past uploads can be listed and duplicate uploads flagged.
package history
