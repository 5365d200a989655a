package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mintdeck/internal/web3"
)

// statsCmd prints the stats overview numbers.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print NFT and Creator Token totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.web3.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		net := rt.web3.Network()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Network\t%s (%d)\n", net.Name, net.ChainID)
		if acct, ok := rt.web3.Account(); ok {
			fmt.Fprintf(tw, "Wallet\t%s\n", web3.ShortAddress(acct))
		}
		fmt.Fprintf(tw, "Total NFTs\t%d\n", st.TotalMinted)
		fmt.Fprintf(tw, "Burned\t%d\n", st.Burned)
		fmt.Fprintf(tw, "Creators\t%d\n", st.Creators)
		fmt.Fprintf(tw, "Holders\t%d\n", st.Holders)
		fmt.Fprintf(tw, "Creator Tokens\t%d\n", st.CreatorTokens)
		fmt.Fprintf(tw, "Your NFTs\t%d\n", st.Owned)
		fmt.Fprintf(tw, "Your Creator Tokens\t%d\n", st.Earned)
		return tw.Flush()
	},
}
