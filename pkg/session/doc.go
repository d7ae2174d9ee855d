/*
Package session stores playback controllers between requests.

A Manager keeps each session as a domain.Playback snapshot in a
ports.SessionStore, restores a controller for every action, and saves the
result back. Access to one session is serialised with a reference-counted
local mutex and, across replicas, an optional ports.DistributedLocker.
*/
package session
