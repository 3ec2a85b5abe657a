// Package cache implements the TTL-bounded answer cache consulted during
// query admission. A fresh hit short-circuits provider execution entirely:
// no spend is recorded and no cooldown applies beyond the admission checks
// that already ran.
package cache
