package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/binwarp/warp64/pkg/fileops"
	"github.com/binwarp/warp64/pkg/warp"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "warptrail [input_path]",
		Short: "Warp64 trailer examination and key recovery",
		Long: `Warp64 trailer examination and key recovery.

Reports the last three bytes of a scrambled file and their byte
offset, then the normalized scrambling key recovered from them. The
recovered key is printed both as its three octets and as a four
character key string that descrambles the file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return examine(args[0])
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func examine(path string) error {
	trail, offset, err := fileops.ReadTrailer(path)
	if err != nil {
		return err
	}

	key := warp.RecoverKey(trail, offset)

	fmt.Printf("Byte offset %d decimal:\n", offset)
	fmt.Printf("0x%02x 0x%02x 0x%02x\n", trail[0], trail[1], trail[2])
	fmt.Printf("Recovered key octets: %d %d %d\n", key[0], key[1], key[2])
	fmt.Printf("Recovered key string: %s\n", key.Encode())
	return nil
}
