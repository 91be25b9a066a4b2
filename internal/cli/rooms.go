package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Inspect running rooms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List running rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoomList
			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <room-id>",
		Short: "Show the public state of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.RoomView
			if err := client.Get(roomPath(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "results <room-id>",
		Short: "Show finished games in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Results
			if err := client.Get(roomPath(args[0])+"/results", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	return cmd
}

func roomPath(id string) string {
	return "/api/v1/rooms/" + url.PathEscape(id)
}
