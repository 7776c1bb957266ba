// Package core defines the shared conversation data model used across the
// fact-checking agent: the closed Part union (text, file/media reference,
// function call, function response) and role-tagged Content grouping parts
// into turns. Conversations are append-only slices of Content owned by a
// single agent run; prior turns are never mutated once appended.
package core
