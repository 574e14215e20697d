package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadgen-engine/internal/secrets"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage source credentials in the OS keychain",
}

var secretsSetCmd = &cobra.Command{
	Use:   "set <source>",
	Short: "Store the IMAP password or API key for a source (read from stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		src, err := a.findSource(args[0])
		if err != nil {
			return err
		}
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		secret := strings.TrimSpace(line)
		if secret == "" {
			if err != nil {
				return fmt.Errorf("read secret: %w", err)
			}
			return errors.New("empty secret")
		}
		if err := secrets.Set(src, secret); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored secret for %s (%s)\n", src.Name, secrets.Account(src))
		return nil
	},
}

var secretsDeleteCmd = &cobra.Command{
	Use:   "delete <source>",
	Short: "Remove a source's credential from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		src, err := a.findSource(args[0])
		if err != nil {
			return err
		}
		return secrets.Delete(src)
	},
}

func init() {
	secretsCmd.AddCommand(secretsSetCmd, secretsDeleteCmd)
}
