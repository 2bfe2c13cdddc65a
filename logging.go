package mpq

import "k8s.io/klog/v2"

// warnUnresolvedListEntry logs a stale (listfile) entry: a name that
// doesn't resolve to any hash table slot. This is expected on archives
// carrying listfiles from a different build, so it's a warning, not an
// error — List still returns the files it could resolve.
func warnUnresolvedListEntry(name string) {
	klog.Warningf("mpq: list: no hash table entry for %q", name)
}

// debugSector logs per-sector decode detail at klog's verbose level,
// mirroring the tracing::debug! instrumentation the original parser
// used around sector and table decryption.
func debugSector(index int, compressed bool, size int) {
	klog.V(4).Infof("mpq: sector %d: compressed=%v size=%d", index, compressed, size)
}
