package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xdao.co/arc89/box"
	"xdao.co/arc89/ipfs"
)

func (c *cli) ipfsCmd() *cobra.Command {
	var bin string
	cmd := &cobra.Command{
		Use:   "ipfs",
		Short: "Publish record bodies to the local IPFS repository",
	}
	cmd.PersistentFlags().StringVar(&bin, "ipfs-bin", "", "path to the ipfs binary (default \"ipfs\")")

	put := &cobra.Command{
		Use:   "put <body-file>",
		Short: "Store a body as a raw block and print its CID",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			id, err := ipfs.New(ipfs.Options{Bin: bin}).PutBody(cmd.Context(), box.NewMetadataBody(raw))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <cid|ipfs-url>",
		Short: "Fetch and verify a block, writing it to stdout",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ipfs.New(ipfs.Options{Bin: bin}).GetURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.AddCommand(put, get)
	return cmd
}
