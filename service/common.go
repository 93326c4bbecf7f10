package service

import (
	"fmt"
	"os"
	"strings"

	"techblog/app/repositories"

	"github.com/spf13/cobra"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openStore(path string) (*repositories.BadgerStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return repositories.NewBadgerStore(path)
}

// confirm asks a yes/no question on the command's streams. Anything other
// than y or Y is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}
