// Package votingengine tallies up and down votes cast by actors against
// votable subjects. A single cast is interpreted against the actor's
// current vote on the subject: no prior vote inserts one, repeating the
// same vote retracts it, and the opposite vote switches direction. Every
// cast returns a fresh aggregate counted in the same transaction as the
// mutation, so callers never observe a tally the cast is not part of.
package votingengine
