package greenflow

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/verdanta/greenflow.Version=...".
var Version = "0.3.0"
