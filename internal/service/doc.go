// Package service provides the application services that own the card
// collection and the settings objects. All mutation funnels through these
// services, which is what keeps the display-ID, relation-symmetry, and
// review-count invariants enforceable in one place. Every mutating operation
// persists the owning collection before returning; storage write failures are
// soft (logged, in-memory state continues) so the caller stays responsive.
package service
