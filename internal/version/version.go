package version

import goversion "github.com/caarlos0/go-version"

const (
	Application = "userdesk"
	Description = "User records back office: record store server and sync client"
	WebSite     = ""
)

// 由 -ldflags "-X main.version=..." 注入后传入
func Build(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(Application, Description, WebSite),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
