// Package misc carries build time information.
package misc

// Set with -ldflags "-X olc/misc.version=... -X olc/misc.git=..." at build time.
var (
	version = "development"
	git     = "unknown"
	appName = "olc"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return git
}

// GetCreator returns value used in createdIn/modifiedIn of produced documents.
func GetCreator() string {
	return appName + " " + version
}
