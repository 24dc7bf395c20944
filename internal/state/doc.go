// Package state persists the record of a launched run to a JSON file so the
// monitor survives restarts. A missing or unreadable file loads as "no
// active run" rather than an error.
package state
