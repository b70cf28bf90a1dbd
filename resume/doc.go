// Package resume persists a wizard's step and form fields across an
// external navigation detour, such as picking a delivery location on
// another screen, and restores them when the wizard is reopened.
//
// Entries are partitioned by service name and live for a fixed TTL
// (ten minutes by default). An entry is only usable when it is strictly
// younger than the TTL and was written for the service being opened.
// Anything else is purged before use. Restores are gated by a two-part
// reopen signal: a reopen flag plus the name of the service to reopen.
//
// Binary file handles are never persisted. Snapshots carry display hints
// only and the user re-selects files after a resume.
package resume
