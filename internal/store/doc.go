// Package store provides the reference storage collaborators the query
// engine executes against: a SQLite-backed relational store, an in-process
// memory store, and a JSON file store with atomic-rename persistence.
//
// The engine itself never owns a record set. Each collaborator here is
// responsible for presenting a consistent snapshot for the duration of one
// find-style call: the memory and file stores hand out copies, and SQLite
// queries observe a single database snapshot.
package store
