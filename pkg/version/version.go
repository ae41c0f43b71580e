package version

// Version is the server release version.
const Version = "1.2.0"

// ProtocolVersion is the MCP protocol revision the server speaks by default
// when the client requests one it does not know.
const ProtocolVersion = "2025-06-18"

// SupportedProtocolVersions lists every protocol revision the server accepts,
// newest first.
var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

// IsSupported reports whether v is a protocol revision this server accepts.
func IsSupported(v string) bool {
	for _, s := range SupportedProtocolVersions {
		if v == s {
			return true
		}
	}
	return false
}
