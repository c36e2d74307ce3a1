package version

var (
	// Version is the firmware-compatible release number. It is keyed out by
	// the V command, so keep it to characters that have a Morse code.
	Version = "0.87"
	// GitSHA is set at build time.
	GitSHA = "unknown"
)
