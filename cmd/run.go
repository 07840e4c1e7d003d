package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crazycars/internal/audio"
	"crazycars/internal/game"
	applog "crazycars/internal/log"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Race in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			world, b, err := newWorld(cfg)
			if err != nil {
				return err
			}
			return game.RunDesktop(world, b, game.Options{
				FPS:        cfg.FPS,
				DebugPath:  viper.GetBool("debug-path"),
				RecordPath: viper.GetString("record-path"),
				Mute:       viper.GetBool("mute"),
				Volume:     viper.GetFloat64("volume"),
				Log:        applog.Named("game"),
			})
		},
	}
	cmd.Flags().Int("fps", 60, "frames (and simulation ticks) per second")
	cmd.Flags().Bool("debug-path", false, "draw the computer car's waypoints")
	cmd.Flags().String("record-path", "",
		"record waypoints by clicking the track (right click undoes) and save them to this file on exit")
	cmd.Flags().Bool("mute", false, "disable sound")
	cmd.Flags().Float64("volume", audio.DefaultSFXVolume, "sound effects volume from 0 to 1")
	return cmd
}
