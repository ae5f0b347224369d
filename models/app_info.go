package models

// AppInfo is served by the version endpoint.
//
// BuildDate and BuildCommit are injected by linker flags in CI and stay
// empty in local builds.
type AppInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	BuildDate   string `json:"buildDate,omitempty"`
	BuildCommit string `json:"buildCommit,omitempty"`
}
