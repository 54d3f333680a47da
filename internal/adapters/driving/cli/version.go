package cli

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "Print the build version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("grimoire version %s\n", version)
		},
	})
}
