// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anttiruonakoski/tiiramuunnin/internal/convert"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available conversion types",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available conversions:")
		for _, name := range convert.Names() {
			c, _ := convert.Lookup(name)
			fmt.Printf("  %s : %s\n", name, c.Description())
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
