// Package relationshipservice implements the friend relationship engine
// inside the social-graph context.
//
// The module owns the single-row-per-unordered-pair relationship lifecycle
// (request, accept/decline, block), the transactional notification append
// that rides along with each mutation, and outbox event production for
// downstream delivery channels. Business rules live in domain/application
// layers; infrastructure sits behind ports and adapters.
package relationshipservice
