package cmd

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of the agent",
		RunE:  cobrautil.VersionRunFunc(ProgramName),
	}
	cobrautil.RegisterVersionFlags(versionCmd.Flags())

	return versionCmd
}
