package codec

import "github.com/bamboo-mc/bamboo/registry"

// RegisteredVersions reports which protocol versions currently have a
// PlayCodec installed. Package main imports each version subpackage
// (v1_8, v1_13, ...) for its init()-time Register call; this lets the
// supervisor log a clear error at startup instead of failing lazily on
// the first play-state packet from an unregistered version.
func RegisteredVersions() []registry.ProtocolVersion {
	out := make([]registry.ProtocolVersion, 0, len(playCodecs))
	for v := range playCodecs {
		out = append(out, v)
	}
	return out
}
