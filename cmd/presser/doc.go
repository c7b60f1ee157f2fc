// Command presser downloads albums, recompresses them, builds private
// torrents, and uploads them to a Gazelle tracker.
package main
