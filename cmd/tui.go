package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	applog "crazycars/internal/log"
	"crazycars/internal/tui"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Race in the terminal",
		Long: `Race in the terminal. Terminals do not report key releases, so every
key press holds its control for --key-hold; keep a key pressed to let it
repeat.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			world, b, err := newWorld(cfg)
			if err != nil {
				return err
			}
			s, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("terminal: %w", err)
			}
			if err := s.Init(); err != nil {
				return fmt.Errorf("terminal: %w", err)
			}
			defer s.Fini()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return tui.New(s, world, b, tui.Options{
				FPS:     cfg.FPS,
				KeyHold: viper.GetDuration("key-hold"),
				Log:     applog.Named("tui"),
			}).Run(ctx)
		},
	}
	cmd.Flags().Int("fps", 60, "frames (and simulation ticks) per second")
	cmd.Flags().Duration("key-hold", tui.DefaultKeyHold, "how long a key press holds its control")
	return cmd
}
