package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/internal/player"
	"github.com/sylm54/narrate/utils"
)

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a finished narration",
	Long:  paragraph(fmt.Sprintf("\n%s a WAV file on the default audio device. Handy for checking a narration without leaving the terminal.", keyword("Play"))),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := utils.ExpandPath(args[0])
		buf, err := audio.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read audio file: %w", err)
		}

		fmt.Printf("Playing %s (%s)\n", path, buf.Duration().Round(time.Millisecond))
		return player.Play(cmd.Context(), buf)
	},
}
