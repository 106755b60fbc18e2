package meta

const (
	NilVersion   = "v0.0.0-development"
	NilCommit    = "unknown"
	NilBuildDate = "unknown"
)

var (
	Name        string = "backoffice"
	Description string = "administrative back-office for the benefits program"

	Version   string = NilVersion
	Commit    string = NilCommit
	BuildDate string = NilBuildDate
)

func IsProduction() bool {
	return Version != NilVersion
}

func IsDevelopment() bool {
	return Version == NilVersion
}
