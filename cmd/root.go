package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moira",
	Short: "Music generation guided by music-theory principles",
	Long:  `Moira renders scale-relative piece descriptions into Standard MIDI Files.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
