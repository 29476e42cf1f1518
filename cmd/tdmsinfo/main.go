package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tdmsio/tdms"
)

func listChannels(filePath string) error {
	file, err := tdms.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, group := range file.Groups() {
		fmt.Println(group.Name)
		for _, channel := range group.Channels() {
			fmt.Printf("%s / %s\n", group.Name, channel.Name)
		}
	}

	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tdmsinfo [file]",
		Short: "Print the group and channel structure of a TDMS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listChannels(args[0])
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
