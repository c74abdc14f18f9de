package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/moiramusic/moira/input"
	"github.com/moiramusic/moira/track"
	"github.com/moiramusic/moira/util"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var playPortNum int

func init() {
	playCmd.Flags().IntVar(&playPortNum, "port", 0, "MIDI out port number")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <piece.json>",
	Short: "Plays a piece on a MIDI out port",
	Long:  `Plays a piece on a MIDI out port`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		play(args[0])
	},
}

type liveEvent struct {
	tick uint64
	on   bool
	key  uint8
}

// liveEvents merges every track into one absolute-tick event list. Within a
// tick, note offs come first so repeated notes retrigger cleanly.
func liveEvents(piece *track.Piece) []liveEvent {
	var events []liveEvent
	for _, t := range piece.Tracks {
		abs := uint64(t.Start)
		for _, tn := range t.Notes {
			duration := uint64(tn.Duration)
			if tn.Note != nil {
				k := uint8(tn.Note.Note(t.Scale))
				events = append(events, liveEvent{tick: abs, on: true, key: k})
				events = append(events, liveEvent{tick: abs + duration, on: false, key: k})
			}
			abs += duration
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})
	return events
}

func play(path string) {
	defer midi.CloseDriver()

	out, err := midi.OutPort(playPortNum)
	if err != nil {
		fmt.Printf("can't find MIDI out port %v\n", playPortNum)
		return
	}

	send, err := midi.SendTo(out)
	if err != nil {
		panic("Could not open MIDI out port: " + err.Error())
	}

	piece, err := input.ParsePiece(util.ReadFileOrPanic(path))
	if err != nil {
		panic(err.Error())
	}

	tickDuration := time.Minute / time.Duration(int(piece.BPM)*track.TicksPerBeat)

	var last uint64
	for _, ev := range liveEvents(piece) {
		if ev.tick > last {
			time.Sleep(time.Duration(ev.tick-last) * tickDuration)
			last = ev.tick
		}
		var msg midi.Message
		if ev.on {
			msg = midi.NoteOn(0, ev.key, 127)
		} else {
			msg = midi.NoteOffVelocity(0, ev.key, 127)
		}
		if err := send(msg); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			return
		}
	}
}
