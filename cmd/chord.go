package cmd

import (
	"fmt"
	"strconv"

	"github.com/moiramusic/moira/chord"
	"github.com/moiramusic/moira/scale"
	"github.com/spf13/cobra"
)

var chordSeventh bool

func init() {
	chordCmd.Flags().BoolVar(&chordSeventh, "seventh", false, "stack a fourth third on top")
	rootCmd.AddCommand(chordCmd)
}

var chordCmd = &cobra.Command{
	Use:   "chord <scale> <degree> [octave]",
	Short: "Prints the chord on a scale degree",
	Long:  `Prints the chord on a scale degree, e.g. "moira chord Cmaj 1"`,
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		degree, err := strconv.Atoi(args[1])
		if err != nil {
			panic(err)
		}
		octave := 4
		if len(args) == 3 {
			arg2, err := strconv.Atoi(args[2])
			if err != nil {
				panic(err)
			}
			octave = arg2
		}
		printChord(args[0], int8(degree), int8(octave))
	},
}

func printChord(name string, degree, octave int8) {
	s, err := scale.Parse(name)
	if err != nil {
		panic(err.Error())
	}

	c := chord.Triad(s, degree, octave)
	if chordSeventh {
		c = chord.Seventh(s, degree, octave)
	}

	fmt.Printf("%v:", c.Name())
	for _, nn := range c.NamedNotes() {
		fmt.Printf(" %v", nn)
	}
	fmt.Println()
}
