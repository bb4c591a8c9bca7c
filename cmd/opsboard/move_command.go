package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvappshub/opsboard/internal/domain"
)

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <card-id> <list-id>",
		Short: "Send a single card move notification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := domain.ParseCardID(args[0])
			if err != nil {
				return err
			}
			list, err := domain.ParseListID(args[1])
			if err != nil {
				return err
			}
			evt, err := domain.NewMoveEvent(card, list)
			if err != nil {
				return err
			}

			mover, err := ctx.mover()
			if err != nil {
				return err
			}
			if err := mover.Move(cmd.Context(), evt); err != nil {
				return err
			}

			log.Info().Str("card_id", string(card)).Str("list_id", string(list)).Msg("move notification sent")
			fmt.Fprintf(cmd.OutOrStdout(), "Sent: card %s -> list %s (%s)\n", card, list, evt.CorrelationID)
			return nil
		},
	}
}
