package cmd

import (
	"fmt"
	"strconv"

	"github.com/moiramusic/moira/scale"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:   "scale <name> [octave]",
	Short: "Prints the notes of a scale",
	Long:  `Prints one octave run of a scale, e.g. "moira scale Ebmin 4"`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		octave := 4
		if len(args) == 2 {
			arg1, err := strconv.Atoi(args[1])
			if err != nil {
				panic(err)
			}
			octave = arg1
		}
		printScale(args[0], int8(octave))
	},
}

func printScale(name string, octave int8) {
	s, err := scale.Parse(name)
	if err != nil {
		panic(err.Error())
	}
	for position := 0; position <= len(s.Offsets()); position++ {
		fmt.Println(s.NamedNoteAt(int8(position), octave))
	}
}
