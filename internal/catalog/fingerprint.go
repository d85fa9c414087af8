package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint hashes the registered kinds, exemplar types and annotations
// together with the scenario table digest. Baselines are stored per
// fingerprint so that a changed catalog or changed scenario inputs never
// compare against stale results.
func (r *Registry) Fingerprint(tableDigest string) string {
	h := sha256.New()
	fmt.Fprintf(h, "table=%s\n", tableDigest)
	for e := range r.All() {
		fmt.Fprintf(h, "%s %s\n", e.Kind().Slug(), identity(e))
		for _, a := range e.Annotations() {
			fmt.Fprintf(h, "  %s\n", a)
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
