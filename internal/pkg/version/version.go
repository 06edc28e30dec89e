package version

var (
	Version   = "0.1.0"
	BuildTime string
	GitCommit string
	GoVersion string
)

func GetVersion() string {
	return Version
}

func GetFullVersion() string {
	if BuildTime == "" && GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ", " + BuildTime + ")"
}
