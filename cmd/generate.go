package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/moiramusic/moira/input"
	"github.com/moiramusic/moira/util"
	"github.com/spf13/cobra"
)

var generateOut string

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "out.mid", "output .mid path")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <piece.json>",
	Short: "Renders a piece to a Standard MIDI File",
	Long:  `Renders a piece to a Standard MIDI File`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Generate(args[0], generateOut); err != nil {
			panic(err.Error())
		}
	},
}

// Generate parses the piece at path and writes the rendered MIDI to out.
func Generate(path, out string) error {
	piece, err := input.ParsePiece(util.ReadFileOrPanic(path))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := piece.WriteSMF(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0666); err != nil {
		return err
	}

	fmt.Printf("Wrote %v tracks to %v\n", len(piece.Tracks), out)
	return nil
}
